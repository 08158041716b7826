package yahoo

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/primogreedy/scout/internal/contracts"
)

// seedPools are curated micro-cap-heavy universes per region,
// refreshed periodically. The trending feed widens coverage beyond
// them at run time.
var seedPools = map[contracts.Region][]string{
	contracts.RegionUSA: {
		"BSFC", "CEAD", "STRM", "GHSI", "INBS", "TTOO", "ARDS", "APRE",
		"WBUY", "SLNH", "PKBO", "SNCE", "TPST", "EDBL", "SOPA", "RCAT",
		"BMEA", "JCSE", "PROC", "VBLT", "ATHE", "SXTC", "REVB", "NUVB",
		"HNVR", "COYA", "MNTS", "GWAV", "AEHL", "REBN",
	},
	contracts.RegionUK: {
		"AFC.L", "BOTB.L", "CML.L", "DUKE.L", "FLO.L", "GAW.L",
		"JET2.L", "KIE.L", "PURP.L", "SDI.L", "TET.L", "WINK.L",
	},
	contracts.RegionCanada: {
		"QUIS.V", "NCI.TO", "CHE.UN.TO", "TVE.TO", "CJ.TO",
		"BYL.V", "FPC.TO", "GBR.V", "RHC.V", "STC.V",
	},
	contracts.RegionAustralia: {
		"VUL.AX", "PEN.AX", "LKE.AX", "NVX.AX", "RNU.AX",
		"SYA.AX", "GL1.AX", "EMN.AX", "BRK.AX", "ADN.AX",
	},
}

// Screener is the structured feed: it walks the region's seed pool in
// shuffled order and returns quote-backed candidates. Individual
// symbol failures are skipped; the feed fails only when every fetch
// fails, so a dead upstream is distinguishable from a thin day.
type Screener struct {
	client     *Client
	maxResults int
}

// NewScreener creates the seed-pool screener feed
func NewScreener(client *Client, maxResults int) *Screener {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Screener{client: client, maxResults: maxResults}
}

// FetchScreener implements discovery.ScreenerFeed
func (s *Screener) FetchScreener(ctx context.Context, region contracts.Region) ([]contracts.Candidate, error) {
	pool := append([]string(nil), seedPools[region]...)
	if len(pool) == 0 {
		return nil, fmt.Errorf("screener: %w: no seed pool for region %s", contracts.ErrFeedUnavailable, region)
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	candidates := make([]contracts.Candidate, 0, s.maxResults)
	failures := 0
	for _, symbol := range pool {
		if len(candidates) >= s.maxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := s.client.Quote(ctx, symbol, region)
		if err != nil {
			failures++
			s.client.logger.WithError(err).WithField("symbol", symbol).Debug("Screener symbol skipped")
			continue
		}
		candidates = append(candidates, *candidate)
	}

	if len(candidates) == 0 && failures > 0 {
		return nil, fmt.Errorf("screener: %w: all %d symbol fetches failed", contracts.ErrFeedUnavailable, failures)
	}
	return candidates, nil
}
