package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/entities"
)

func checkOddsRange(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	v := sb.SoftProng.Odds.Value()
	if v < deps.MinOdds || v > deps.MaxOdds {
		return false, fmt.Sprintf("soft odds %.2f outside [%.2f, %.2f]", v, deps.MinOdds, deps.MaxOdds), nil
	}
	return true, "", nil
}

func checkProfitRange(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	if sb.Profit < deps.MinProfit || sb.Profit > deps.MaxProfit {
		return false, fmt.Sprintf("profit %.2f outside [%.2f, %.2f]", sb.Profit, deps.MinProfit, deps.MaxProfit), nil
	}
	return true, "", nil
}

func checkEventFuture(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	if !sb.SoftProng.EventTime.Time().After(time.Now()) {
		return false, "event time is not strictly in the future", nil
	}
	return true, "", nil
}

// checkRolesPresent is a defensive check behind C7's role assignment:
// both prongs must carry a bookmaker id and the two ids must differ. It
// does not look up the bookmakers' roles, so it does not re-check which
// prong is sharp.
func checkRolesPresent(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	if sb.SharpProng.BookmakerID == "" || sb.SoftProng.BookmakerID == "" {
		return false, "surebet is missing a prong bookmaker id", nil
	}
	if sb.SharpProng.BookmakerID == sb.SoftProng.BookmakerID {
		return false, "surebet prongs share a bookmaker id", nil
	}
	return true, "", nil
}

func checkDedup(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	present, err := deps.Store.ExistsAny(ctx, sb.SoftProng.DedupKey())
	if err != nil {
		return false, "", fmt.Errorf("validation: dedup query: %w", err)
	}
	if present {
		return false, "dedup key already recorded", nil
	}
	return true, "", nil
}

func checkOppositeMarket(ctx context.Context, sb *entities.Surebet, deps Deps) (bool, string, error) {
	opp := sb.SoftProng.OppositeDedupKeys()
	if len(opp) == 0 {
		return true, "", nil
	}
	present, err := deps.Store.ExistsAny(ctx, opp...)
	if err != nil {
		return false, "", fmt.Errorf("validation: opposite-market query: %w", err)
	}
	if present {
		return false, "opposite-market key already recorded", nil
	}
	return true, "", nil
}
