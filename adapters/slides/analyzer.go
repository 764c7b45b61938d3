package slides

import (
	"fmt"
	"math"
	"strings"
)

// Analyzer computes structural metrics and KPIs over extracted slides
type Analyzer struct {
	slides []Slide
}

// NewAnalyzer wraps an extracted slide deck for analysis
func NewAnalyzer(slides []Slide) *Analyzer {
	return &Analyzer{slides: slides}
}

// Slides returns the extracted slides
func (a *Analyzer) Slides() []Slide {
	return a.slides
}

// Overview summarizes slide counts, text volume and title usage
func (a *Analyzer) Overview() Overview {
	total := len(a.slides)

	var totalText, withTitles, withContent, bullets int
	for _, s := range a.slides {
		totalText += s.TextLength
		if s.Title != "" {
			withTitles++
		}
		if len(s.Content) > 0 {
			withContent++
		}
		bullets += len(s.BulletPoints)
	}

	var avgText float64
	if total > 0 {
		avgText = round1(float64(totalText) / float64(total))
	}

	return Overview{
		TotalSlides:         total,
		TotalTextLength:     totalText,
		SlidesWithTitles:    withTitles,
		AverageTextPerSlide: avgText,
		SlidesWithContent:   withContent,
		TotalBulletPoints:   bullets,
	}
}

// Structure analyzes text distribution, consistency and slide categories
func (a *Analyzer) Structure() Structure {
	return Structure{
		TextDistribution: a.textDistribution(),
		Consistency:      a.consistency(),
		SlideTypes:       a.categorize(),
	}
}

func (a *Analyzer) textDistribution() TextDistribution {
	if len(a.slides) == 0 {
		return TextDistribution{}
	}

	min, max, sum := a.slides[0].TextLength, a.slides[0].TextLength, 0
	for _, s := range a.slides {
		if s.TextLength < min {
			min = s.TextLength
		}
		if s.TextLength > max {
			max = s.TextLength
		}
		sum += s.TextLength
	}

	return TextDistribution{
		MinTextLength: min,
		MaxTextLength: max,
		AvgTextLength: float64(sum) / float64(len(a.slides)),
	}
}

// consistency scores titling coverage and text-length uniformity. The
// content score is 1 - (population stddev / mean) over non-empty slides,
// clamped at zero, so uniform decks score near 1.
func (a *Analyzer) consistency() Consistency {
	if len(a.slides) == 0 {
		return Consistency{}
	}

	titled := 0
	for _, s := range a.slides {
		if s.Title != "" {
			titled++
		}
	}
	titleConsistency := float64(titled) / float64(len(a.slides))

	var lengths []float64
	for _, s := range a.slides {
		if s.TextLength > 0 {
			lengths = append(lengths, float64(s.TextLength))
		}
	}

	contentScore := 1.0
	if len(lengths) > 1 {
		var sum float64
		for _, v := range lengths {
			sum += v
		}
		mean := sum / float64(len(lengths))

		var variance float64
		for _, v := range lengths {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(lengths))

		if mean > 0 {
			contentScore = math.Max(0, 1-math.Sqrt(variance)/mean)
		} else {
			contentScore = 0
		}
	}

	titleConsistency = round2(titleConsistency)
	contentScore = round2(contentScore)

	return Consistency{
		TitleConsistency:        titleConsistency,
		ContentConsistencyScore: contentScore,
		ConsistentStructure:     titleConsistency > 0.8 && contentScore > 0.6,
	}
}

func (a *Analyzer) categorize() SlideTypes {
	var types SlideTypes
	for _, s := range a.slides {
		switch {
		case s.TextLength < 50:
			types.MinimalSlides++
		case len(s.BulletPoints) > 3:
			types.BulletSlides++
		case s.Title != "" && s.TextLength < 200:
			types.TitleSlides++
		default:
			types.ContentSlides++
		}
	}
	return types
}

// KPIs builds presentation-level indicators with threshold recommendations
func (a *Analyzer) KPIs() []KPI {
	overview := a.Overview()
	structure := a.Structure()

	var kpis []KPI

	if overview.TotalSlides > 0 {
		kpis = append(kpis, KPI{
			Name:           "Presentation Length",
			Value:          float64(overview.TotalSlides),
			Unit:           "slides",
			Category:       "Structure",
			Description:    "Total number of slides in the presentation",
			Recommendation: lengthRecommendation(overview.TotalSlides),
		})
	}

	if overview.AverageTextPerSlide > 0 {
		kpis = append(kpis, KPI{
			Name:           "Content Density",
			Value:          round1(overview.AverageTextPerSlide),
			Unit:           "characters/slide",
			Category:       "Content Quality",
			Description:    "Average amount of text content per slide",
			Recommendation: densityRecommendation(overview.AverageTextPerSlide),
		})
	}

	consistencyScore := structure.Consistency.ContentConsistencyScore
	kpis = append(kpis, KPI{
		Name:           "Content Consistency",
		Value:          round1(consistencyScore * 100),
		Unit:           "%",
		Category:       "Structure",
		Description:    "How consistent the content length is across slides",
		Recommendation: consistencyRecommendation(consistencyScore),
	})

	var titleCoverage float64
	if overview.TotalSlides > 0 {
		titleCoverage = float64(overview.SlidesWithTitles) / float64(overview.TotalSlides) * 100
	}
	kpis = append(kpis, KPI{
		Name:           "Title Coverage",
		Value:          round1(titleCoverage),
		Unit:           "%",
		Category:       "Structure",
		Description:    "Percentage of slides with clear titles",
		Recommendation: titleRecommendation(titleCoverage),
	})

	return kpis
}

// NarrativeText renders the deck as plain text for insight generation
func (a *Analyzer) NarrativeText() string {
	var parts []string
	for _, s := range a.slides {
		var b strings.Builder
		fmt.Fprintf(&b, "Slide %d:\n", s.Number)
		if s.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", s.Title)
		}
		if len(s.Content) > 0 {
			fmt.Fprintf(&b, "Content: %s\n", strings.Join(s.Content, " "))
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

func lengthRecommendation(slideCount int) string {
	switch {
	case slideCount < 5:
		return "Consider adding more content or combining with other topics"
	case slideCount > 20:
		return "Consider breaking into multiple presentations for better audience engagement"
	default:
		return "Good presentation length for audience attention"
	}
}

func densityRecommendation(avgChars float64) string {
	switch {
	case avgChars < 100:
		return "Consider adding more detailed content to slides"
	case avgChars > 500:
		return "Consider reducing text density for better readability"
	default:
		return "Good balance of content per slide"
	}
}

func consistencyRecommendation(score float64) string {
	switch {
	case score < 0.4:
		return "Improve consistency by standardizing slide content length"
	case score < 0.7:
		return "Good consistency, minor adjustments could help"
	default:
		return "Excellent content consistency across slides"
	}
}

func titleRecommendation(coverage float64) string {
	switch {
	case coverage < 50:
		return "Add clear titles to more slides for better navigation"
	case coverage < 80:
		return "Good title usage, consider adding titles to remaining slides"
	default:
		return "Excellent title coverage for clear presentation structure"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
