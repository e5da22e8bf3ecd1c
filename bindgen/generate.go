package bindgen

import (
	"time"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/syntax"
)

// Translate dispatches one item to the backend method for its kind.
// Item kinds a backend never translates are skipped.
func Translate(lang Lang, item *syntax.Item, module []string) (Outcome, error) {
	switch item.Node.(type) {
	case *syntax.TyAlias:
		return lang.ParseTy(item, module)
	case *syntax.Enum:
		return lang.ParseEnum(item, module)
	case *syntax.Struct:
		return lang.ParseStruct(item, module)
	case *syntax.Fn:
		return lang.ParseFn(item, module)
	case *syntax.Other:
		return Skipped, nil
	default:
		return Skipped, NewBug(KindWrongItem, item.Span, "item %s has no declaration payload", item.Ident)
	}
}

// Generate feeds every item of stream to lang in document order and
// finalises it. The first failure aborts the run and no outputs are returned.
func Generate(lang Lang, stream *syntax.Stream) (Outputs, error) {
	log := logger.ComponentLogger("bindgen")
	start := time.Now()
	emitted, skipped := 0, 0

	for _, mod := range stream.Modules {
		for _, item := range mod.Items {
			kind := kindName(item)
			outcome, err := Translate(lang, item, mod.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "%s %s::%s", kind, mod.PathString(), item.Ident)
			}

			log.Debugw("item translated",
				logger.FieldModule, mod.PathString(),
				logger.FieldItem, item.Ident,
				logger.FieldKind, kind,
				logger.FieldOutcome, outcome.String())

			if outcome == Emitted {
				emitted++
			} else {
				skipped++
			}
		}
	}

	outputs, err := lang.Finalise()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to assemble %s output", lang.Language())
	}

	log.Infow("generation complete",
		logger.FieldOperation, lang.Language(),
		logger.FieldCount, len(outputs),
		"emitted", emitted,
		"skipped", skipped,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return outputs, nil
}

// kindName names the item's declaration kind, or "item" when the payload is missing.
func kindName(item *syntax.Item) string {
	if item.Node == nil {
		return "item"
	}
	return item.Node.KindName()
}
