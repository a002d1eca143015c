package access

// NavItem is a single sidebar entry.
type NavItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NavSection groups sidebar entries under a label.
type NavSection struct {
	Label string    `json:"label"`
	Items []NavItem `json:"items"`
}

var adminNavItems = []NavItem{
	{Title: "Overview", Path: "/"},
	{Title: "Daily Mood Logging", Path: "/mood-logging"},
	{Title: "AI Mood Analysis", Path: "/ai-analysis"},
	{Title: "Counselor Management", Path: "/counselors"},
	{Title: "Session Tracking", Path: "/sessions"},
	{Title: "Crisis Detection", Path: "/crisis"},
}

var dataScientistNavItems = []NavItem{
	{Title: "Recommendations", Path: "/recommendations"},
}

// NavSectionsFor returns the sidebar sections visible to a role. Unknown or
// unresolved roles get no menu; they are denied protected routes by the gate
// anyway.
func NavSectionsFor(role Role) []NavSection {
	switch role {
	case RoleAdmin:
		return []NavSection{
			{Label: "Admin Panel", Items: copyNavItems(adminNavItems)},
		}
	case RoleDataScientist:
		return []NavSection{
			{Label: "Data Scientist", Items: copyNavItems(dataScientistNavItems)},
		}
	default:
		return nil
	}
}

// NavItemsFor flattens NavSectionsFor into a single list.
func NavItemsFor(role Role) []NavItem {
	var items []NavItem
	for _, section := range NavSectionsFor(role) {
		items = append(items, section.Items...)
	}
	return items
}

func copyNavItems(items []NavItem) []NavItem {
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}
