package scraper

// MaxArticles: сколько карточек берём со страницы. Не настраивается
const MaxArticles = 2

type Article struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}

// DateMode определяет, откуда берётся поле date
type DateMode string

const (
	// DateModeScrapeDate: дата запуска в формате 2006-01-02 (UTC)
	DateModeScrapeDate DateMode = "scrape_date"
	// DateModeContentPrefix: фрагмент текста до первого тире
	DateModeContentPrefix DateMode = "content_prefix"
)

func (m DateMode) Valid() bool {
	return m == DateModeScrapeDate || m == DateModeContentPrefix
}

// Selectors: набор селекторов из YAML. Контейнер выбирается эвристически,
// остальные поля фиксированы
type Selectors struct {
	ContainerCandidates []string `yaml:"container_candidates"`
	ContainerFallback   string   `yaml:"container_fallback"`
	Title               string   `yaml:"title"`
	Image               string   `yaml:"image"`
	ImageAttr           string   `yaml:"image_attr"`
	Content             string   `yaml:"content"`
	Link                string   `yaml:"link"`
	LinkAttr            string   `yaml:"link_attr"`
}

// Resolved: конфигурация, выбранная для конкретной страницы
type Resolved struct {
	Article   string
	Title     string
	Image     string
	ImageAttr string
	Content   string
	Link      string
	LinkAttr  string
}

// PatternCount: число совпадений диагностического паттерна
type PatternCount struct {
	Pattern string
	Count   int
}

func DefaultSelectors() *Selectors {
	return &Selectors{
		ContainerCandidates: []string{"article", ".post", ".news-item", ".article", ".entry"},
		ContainerFallback:   "article",
		Title:               "h1, h2, h3",
		Image:               "img",
		ImageAttr:           "src",
		Content:             "p",
		Link:                "a",
		LinkAttr:            "href",
	}
}

// WithDefaults заполняет пустые поля значениями по умолчанию
func (s *Selectors) WithDefaults() *Selectors {
	def := DefaultSelectors()
	out := *s

	if len(out.ContainerCandidates) == 0 {
		out.ContainerCandidates = def.ContainerCandidates
	}
	if out.ContainerFallback == "" {
		out.ContainerFallback = def.ContainerFallback
	}
	if out.Title == "" {
		out.Title = def.Title
	}
	if out.Image == "" {
		out.Image = def.Image
	}
	if out.ImageAttr == "" {
		out.ImageAttr = def.ImageAttr
	}
	if out.Content == "" {
		out.Content = def.Content
	}
	if out.Link == "" {
		out.Link = def.Link
	}
	if out.LinkAttr == "" {
		out.LinkAttr = def.LinkAttr
	}
	return &out
}
