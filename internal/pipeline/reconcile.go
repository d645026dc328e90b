package pipeline

import (
	"log"

	"github.com/google/uuid"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/config"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

// Orchestrator drives one reconciliation run. Master records are processed
// strictly in catalog order and price records are a mutually exclusive
// resource within the run: greedy first-come assignment, not a global
// optimum.
type Orchestrator struct {
	cfg   config.Config
	store *Store
}

func NewOrchestrator(cfg config.Config, store *Store) *Orchestrator {
	return &Orchestrator{cfg: cfg, store: store}
}

func (o *Orchestrator) Run(masters []internal.MasterRecord, prices []internal.PriceRecord) internal.RunResult {
	// Pending reflects only this run's open questions.
	_ = o.store.ClearPending()
	_ = o.store.PreloadPending()
	_ = o.store.PreloadConfirmed()

	scorer := NewScorer(o.store.Confirmed(), o.cfg.IgnoreWordSet())

	result := internal.RunResult{
		TraceID:       uuid.NewString(),
		CostByProduct: map[string]float64{},
	}

	seenMaster := map[string]struct{}{}
	usedPrice := map[string]struct{}{}
	usedPairs := map[string]struct{}{}

	for _, master := range masters {
		if util.Normalize(master.Unit) != internal.UnitEligible {
			result.Counts.SkippedUnit++
			continue
		}

		masterKey := util.Normalize(master.Product)

		if existing := o.store.LookupConfirmed(master.Product); existing != nil {
			outcome := internal.MatchOutcome{
				Kind:       internal.MatchGood,
				ProductA:   existing.ProductA,
				ProductB:   existing.ProductB,
				PriceA:     existing.PriceA,
				PriceB:     existing.PriceB,
				Similarity: existing.Similarity,
			}
			result.Good = append(result.Good, outcome)
			outcome.Kind = internal.MatchDuplicate
			result.Duplicates = append(result.Duplicates, outcome)
			result.Counts.Duplicates++
			result.CostByProduct[master.Product] = existing.PriceA
			continue
		}

		var best *internal.PriceRecord
		bestSim := 0.0
		for i := range prices {
			price := &prices[i]
			if _, used := usedPrice[util.Normalize(price.Description)]; used {
				continue
			}
			sim := scorer.Score(masterKey, price.Description)
			if sim > bestSim {
				bestSim = sim
				best = price
			}
		}

		if best == nil {
			result.Counts.Unmatched++
			continue
		}

		priceKey := util.Normalize(best.Description)
		pairKey := masterKey + "||" + priceKey

		_, masterSeen := seenMaster[masterKey]
		_, pairSeen := usedPairs[pairKey]
		if masterSeen || pairSeen {
			result.Counts.Duplicates++
			result.Duplicates = append(result.Duplicates, internal.MatchOutcome{
				Kind:       internal.MatchDuplicate,
				ProductA:   best.Description,
				ProductB:   master.Product,
				PriceA:     best.Price,
				PriceB:     master.Cost,
				Similarity: bestSim,
			})
			continue
		}

		seenMaster[masterKey] = struct{}{}
		usedPrice[priceKey] = struct{}{}
		usedPairs[pairKey] = struct{}{}

		switch {
		case bestSim >= o.cfg.GoodThreshold:
			if _, err := o.store.SaveConfirmed(best.Description, master.Product, best.Price, master.Cost, bestSim); err != nil {
				log.Printf("save confirmed: %v", err)
			}
			result.Counts.Matched++
			result.CostByProduct[master.Product] = best.Price
			result.Good = append(result.Good, internal.MatchOutcome{
				Kind:       internal.MatchGood,
				ProductA:   best.Description,
				ProductB:   master.Product,
				PriceA:     best.Price,
				PriceB:     master.Cost,
				Similarity: bestSim,
			})
		case bestSim >= o.cfg.DiscardThreshold:
			if _, err := o.store.SavePending(best.Description, master.Product, best.Price, master.Cost, bestSim); err != nil {
				log.Printf("save pending: %v", err)
			}
			result.Counts.Pending++
			result.Pending = append(result.Pending, internal.MatchOutcome{
				Kind:       internal.MatchPending,
				ProductA:   best.Description,
				ProductB:   master.Product,
				PriceA:     best.Price,
				PriceB:     master.Cost,
				Similarity: bestSim,
			})
		default:
			result.Counts.Unmatched++
		}
	}

	// Subsequent scoring must see rows committed by this run.
	_ = o.store.PreloadConfirmed()

	for _, g := range result.Good {
		result.GroupKeys = append(result.GroupKeys, [2]string{
			util.Normalize(g.ProductA),
			util.Normalize(g.ProductB),
		})
	}

	if err := o.store.RecordRun(result.TraceID, result.Counts); err != nil {
		log.Printf("record run: %v", err)
	}

	return result
}
