package gloss

import (
	"context"
	"fmt"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

// GlossTier glosses every labeled interval of tier and returns a new tier
// named name with the same bounds. Unlabeled intervals are not sent and stay
// absent from the result.
func GlossTier(
	ctx context.Context,
	g Glosser,
	tier *textgrid.IntervalTier,
	name string,
) (*textgrid.IntervalTier, error) {
	intervals := tier.Intervals()

	var items []Item
	for i, iv := range intervals {
		if iv.Mark() == "" {
			continue
		}
		items = append(items, Item{Index: i, Text: iv.Mark()})
	}

	glosses, err := collect(ctx, g, items)
	if err != nil {
		return nil, err
	}

	out := textgrid.NewIntervalTier(name, tier.MinTime(), tier.MaxTime())
	out.SetStrict(tier.Strict())
	for _, it := range items {
		iv := intervals[it.Index]
		if err := out.Add(iv.MinTime(), iv.MaxTime(), glosses[it.Index]); err != nil {
			return nil, fmt.Errorf("interval %d: %w", it.Index, err)
		}
	}
	return out, nil
}

// GlossPointTier is GlossTier for point tiers.
func GlossPointTier(
	ctx context.Context,
	g Glosser,
	tier *textgrid.PointTier,
	name string,
) (*textgrid.PointTier, error) {
	points := tier.Points()

	var items []Item
	for i, p := range points {
		if p.Mark() == "" {
			continue
		}
		items = append(items, Item{Index: i, Text: p.Mark()})
	}

	glosses, err := collect(ctx, g, items)
	if err != nil {
		return nil, err
	}

	out := textgrid.NewPointTier(name, tier.MinTime(), tier.MaxTime())
	for _, it := range items {
		if err := out.Add(points[it.Index].Time(), glosses[it.Index]); err != nil {
			return nil, fmt.Errorf("point %d: %w", it.Index, err)
		}
	}
	return out, nil
}

func collect(ctx context.Context, g Glosser, items []Item) (map[int]string, error) {
	glosses := make(map[int]string, len(items))
	if len(items) == 0 {
		return glosses, nil
	}

	results, err := g.Gloss(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("gloss failed: %w", err)
	}
	for _, r := range results {
		glosses[r.Index] = r.Text
	}
	for _, it := range items {
		if _, ok := glosses[it.Index]; !ok {
			return nil, fmt.Errorf("no gloss for label %d (%q)", it.Index, it.Text)
		}
	}
	return glosses, nil
}
