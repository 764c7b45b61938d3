package slides

// Slide holds the extracted text and structure of one slide
type Slide struct {
	Number       int      `json:"slide_number"`
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	BulletPoints []string `json:"bullet_points"`
	TextLength   int      `json:"text_length"`
	ShapeCount   int      `json:"shape_count"`
}

// Overview summarizes a whole presentation
type Overview struct {
	TotalSlides         int     `json:"total_slides"`
	TotalTextLength     int     `json:"total_text_length"`
	SlidesWithTitles    int     `json:"slides_with_titles"`
	AverageTextPerSlide float64 `json:"average_text_per_slide"`
	SlidesWithContent   int     `json:"slides_with_content"`
	TotalBulletPoints   int     `json:"total_bullet_points"`
}

// TextDistribution describes how text length varies across slides
type TextDistribution struct {
	MinTextLength int     `json:"min_text_length"`
	MaxTextLength int     `json:"max_text_length"`
	AvgTextLength float64 `json:"avg_text_length"`
}

// Consistency scores structural uniformity across slides
type Consistency struct {
	TitleConsistency        float64 `json:"title_consistency"`
	ContentConsistencyScore float64 `json:"content_consistency_score"`
	ConsistentStructure     bool    `json:"consistent_structure"`
}

// SlideTypes counts slides by category
type SlideTypes struct {
	TitleSlides   int `json:"title_slides"`
	ContentSlides int `json:"content_slides"`
	BulletSlides  int `json:"bullet_slides"`
	MinimalSlides int `json:"minimal_slides"`
}

// Structure combines distribution, consistency and categorization
type Structure struct {
	TextDistribution TextDistribution `json:"text_distribution"`
	Consistency      Consistency      `json:"content_consistency"`
	SlideTypes       SlideTypes       `json:"slide_types"`
}

// KPI is a presentation-level indicator with a threshold-based recommendation
type KPI struct {
	Name           string  `json:"name"`
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
}
