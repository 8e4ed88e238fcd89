package biorxiv

// Category is one of the preprint subjects exposed to the UI. Server is
// empty for "all", which spans both upstreams.
type Category struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Server string `json:"server,omitempty"`
}

var Categories = []Category{
	{ID: "all", Label: "All Categories"},
	{ID: "infectious-diseases", Label: "Infectious Diseases", Server: "medrxiv"},
	{ID: "epidemiology", Label: "Epidemiology", Server: "medrxiv"},
	{ID: "public-health", Label: "Public Health", Server: "medrxiv"},
	{ID: "psychiatry", Label: "Psychiatry", Server: "medrxiv"},
	{ID: "cardiovascular-medicine", Label: "Cardiovascular Medicine", Server: "medrxiv"},
	{ID: "oncology", Label: "Oncology", Server: "medrxiv"},
	{ID: "neurology", Label: "Neurology", Server: "medrxiv"},
	{ID: "neuroscience", Label: "Neuroscience", Server: "biorxiv"},
	{ID: "genetics", Label: "Genetics", Server: "biorxiv"},
	{ID: "genomics", Label: "Genomics", Server: "biorxiv"},
	{ID: "bioinformatics", Label: "Bioinformatics", Server: "biorxiv"},
	{ID: "cell-biology", Label: "Cell Biology", Server: "biorxiv"},
	{ID: "molecular-biology", Label: "Molecular Biology", Server: "biorxiv"},
	{ID: "immunology", Label: "Immunology", Server: "biorxiv"},
	{ID: "microbiology", Label: "Microbiology", Server: "biorxiv"},
	{ID: "cancer-biology", Label: "Cancer Biology", Server: "biorxiv"},
	{ID: "evolutionary-biology", Label: "Evolutionary Biology", Server: "biorxiv"},
}

// categoryServer returns the upstream server owning the category id, or
// empty when the category spans both.
func categoryServer(id string) string {
	for _, cat := range Categories {
		if cat.ID == id {
			return cat.Server
		}
	}
	return ""
}
