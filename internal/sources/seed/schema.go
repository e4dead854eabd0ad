package seed

// Seed files hold one collection each under a top-level "items" key, e.g.
//
//	items:
//	  - name: Arcadia
//	    slug: arcadia
//	    category: Productivity
//	    tags: [New, Popular]
//	    created_at: 2025-01-15
type File[T any] struct {
	Items []T `yaml:"items"`
}

// AppSeed is one entry of apps.yaml.
type AppSeed struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"short_description"`
	Developer        string   `yaml:"developer"`
	IconURL          string   `yaml:"icon_url"`
	DownloadURL      string   `yaml:"download_url"`
	Platform         string   `yaml:"platform"`
	Category         string   `yaml:"category"`
	Price            string   `yaml:"price"`
	IsPaid           bool     `yaml:"is_paid"`
	PricingModel     string   `yaml:"pricing_model"`
	Screenshots      []string `yaml:"screenshots"`
	Tags             []string `yaml:"tags"`
	Rating           float64  `yaml:"rating"`
	ReviewsCount     int64    `yaml:"reviews_count"`
	CreatedAt        string   `yaml:"created_at"`
}

// WorkflowSeed is one entry of workflows.yaml.
type WorkflowSeed struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"short_description"`
	Author           string   `yaml:"author"`
	ThumbnailURL     string   `yaml:"thumbnail_url"`
	WorkflowURL      string   `yaml:"workflow_url"`
	Category         string   `yaml:"category"`
	Tags             []string `yaml:"tags"`
	Difficulty       string   `yaml:"difficulty"`
	UseCases         []string `yaml:"use_cases"`
	Rating           float64  `yaml:"rating"`
	DownloadsCount   int64    `yaml:"downloads_count"`
	CreatedAt        string   `yaml:"created_at"`
}

// RepoSeed is one entry of repos.yaml.
type RepoSeed struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"short_description"`
	Author           string   `yaml:"author"`
	GithubURL        string   `yaml:"github_url"`
	Language         string   `yaml:"language"`
	Topics           []string `yaml:"topics"`
	Stars            int64    `yaml:"stars"`
	Forks            int64    `yaml:"forks"`
	IsArchived       bool     `yaml:"is_archived"`
	LastUpdated      string   `yaml:"last_updated"`
	CreatedAt        string   `yaml:"created_at"`
}

// MCPSeed is one entry of mcps.yaml.
type MCPSeed struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"short_description"`
	Provider         string   `yaml:"provider"`
	MCPURL           string   `yaml:"mcp_url"`
	IconURL          string   `yaml:"icon_url"`
	Platform         string   `yaml:"platform"`
	Category         string   `yaml:"category"`
	Integrations     []string `yaml:"integrations"`
	Rating           float64  `yaml:"rating"`
	InstallsCount    int64    `yaml:"installs_count"`
	CreatedAt        string   `yaml:"created_at"`
}
