package domain

import "strings"

var (
	AppCategories      = []string{"Productivity", "Design", "Development", "Media", "Utilities", "Browser"}
	AppPlatforms       = []string{"macOS", "iOS", "Both", "Cross-platform"}
	WorkflowCategories = []string{"Automation", "Data Processing", "Integration", "Monitoring", "Productivity"}
	Difficulties       = []string{"Beginner", "Intermediate", "Advanced"}
	MCPCategories      = []string{"Productivity", "Development", "Content", "Data", "Integration"}
	MCPPlatforms       = []string{"macOS", "iOS", "Cross-platform"}
)

// canonical returns the vocabulary entry matching v case-insensitively.
func canonical(allowed []string, v string) (string, bool) {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return a, true
		}
	}
	return "", false
}

func isAll(v string) bool { return strings.EqualFold(v, "all") }
