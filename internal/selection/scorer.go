package selection

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/screenconfig"
	"github.com/wonny/epscreen/pkg/logger"
)

// Sub-score maxima and tier values
const (
	freshMax    = 5.0
	reratingMax = 5.0

	tierTop    = 5.0
	tierMid    = 3.0
	tierVolume = 1.5
	tierNone   = 0.0

	storyStrong = 4.0
	storyNews   = 2.0
	storyWeak   = 0.5

	storyFreshMin         = 2.0
	storyInstitutionalMin = 3.0
)

// WeightConfig defines sub-score weights for the overall score
type WeightConfig struct {
	FreshCatalyst         float64 // 신선한 촉매 (기본: 0.40)
	InstitutionalInterest float64 // 기관 관심 (기본: 0.35)
	JustifiedStory        float64 // 스토리 (기본: 0.15)
	ReratingPotential     float64 // 리레이팅 (기본: 0.10)
}

// DefaultWeights sum to 1.0. Sub-scores have different maxima, so overall is not
// on a fixed scale; it is kept as the raw weighted sum.
var DefaultWeights = WeightConfig{
	FreshCatalyst:         0.40,
	InstitutionalInterest: 0.35,
	JustifiedStory:        0.15,
	ReratingPotential:     0.10,
}

// CompositeScorer combines metrics and the news score into sub-scores and overall
// ⭐ SSOT: 종합 점수 로직은 여기서만
type CompositeScorer struct {
	thresholds screenconfig.Scoring
	weights    WeightConfig
	logger     *logger.Logger
}

// NewCompositeScorer creates a scorer with the default weights
func NewCompositeScorer(thresholds screenconfig.Scoring, log *logger.Logger) *CompositeScorer {
	return &CompositeScorer{
		thresholds: thresholds,
		weights:    DefaultWeights,
		logger:     log,
	}
}

// Score computes the four sub-scores and the overall score (rounded to 2 decimals)
func (s *CompositeScorer) Score(m contracts.MetricResult, newsScore float64) (contracts.SubScores, float64) {
	fresh := math.Min(freshMax, newsScore)
	institutional := s.institutionalInterest(m.GapPct, m.VolRatio)
	justified := justifiedStory(fresh, institutional)
	rerating := math.Min(reratingMax, fresh+institutional/2.0)

	sub := contracts.SubScores{
		FreshCatalyst:         fresh,
		InstitutionalInterest: institutional,
		JustifiedStory:        justified,
		ReratingPotential:     rerating,
	}

	return sub, s.overall(sub)
}

// Row builds the output row from one ticker's gathered data.
// err != nil yields the failure shape, a nil metric the insufficient shape.
func (s *CompositeScorer) Row(ticker string, m *contracts.MetricResult, newsScore float64, err error) contracts.ScoreRow {
	if err != nil {
		return contracts.NewFailureRow(ticker, err)
	}
	if m == nil {
		return contracts.NewInsufficientRow(ticker)
	}

	sub, overall := s.Score(*m, newsScore)
	return contracts.NewScoredRow(ticker, *m, sub, overall)
}

// institutionalInterest returns the first matching tier
func (s *CompositeScorer) institutionalInterest(gapPct, volRatio float64) float64 {
	t := s.thresholds

	switch {
	case gapPct >= t.GapThreshold && volRatio >= t.VolRatioGood:
		return tierTop
	case gapPct >= t.GapThresholdMid && volRatio >= t.VolRatioMid:
		return tierMid
	case volRatio >= t.VolRatioMin:
		return tierVolume
	default:
		return tierNone
	}
}

func justifiedStory(fresh, institutional float64) float64 {
	switch {
	case fresh >= storyFreshMin && institutional >= storyInstitutionalMin:
		return storyStrong
	case fresh > 0:
		return storyNews
	default:
		return storyWeak
	}
}

func (s *CompositeScorer) overall(sub contracts.SubScores) float64 {
	w := s.weights
	raw := sub.FreshCatalyst*w.FreshCatalyst +
		sub.InstitutionalInterest*w.InstitutionalInterest +
		sub.JustifiedStory*w.JustifiedStory +
		sub.ReratingPotential*w.ReratingPotential

	return Round2(raw)
}

// Round2 rounds the exact binary value of v to 2 decimals; only exact ties go
// half to even. 0.5*0.15 is 0.07499.. in binary and rounds to 0.07.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return exactDecimal(v).RoundBank(2).InexactFloat64()
}

// exactDecimal expands v = m·2^e into a decimal with no loss.
// decimal.NewFromFloat picks the shortest repr instead, which turns 0.07499.. into 0.075.
func exactDecimal(v float64) decimal.Decimal {
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(math.Ldexp(frac, 53)))
	shift := exp - 53
	if shift >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(shift)), 0)
	}

	// m/2^k == m·5^k/10^k
	k := int64(-shift)
	mant.Mul(mant, new(big.Int).Exp(big.NewInt(5), big.NewInt(k), nil))
	return decimal.NewFromBigInt(mant, -int32(k))
}
