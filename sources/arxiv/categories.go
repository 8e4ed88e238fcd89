package arxiv

// Category is one of the curated arXiv subjects exposed to the UI.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
}

var Categories = []Category{
	{ID: "cs.AI", Label: "Artificial Intelligence", Group: "Computer Science"},
	{ID: "cs.LG", Label: "Machine Learning", Group: "Computer Science"},
	{ID: "cs.CV", Label: "Computer Vision", Group: "Computer Science"},
	{ID: "cs.CL", Label: "Computation & Language (NLP)", Group: "Computer Science"},
	{ID: "cs.CR", Label: "Cryptography & Security", Group: "Computer Science"},
	{ID: "cs.RO", Label: "Robotics", Group: "Computer Science"},
	{ID: "stat.ML", Label: "Machine Learning (Stats)", Group: "Statistics"},
	{ID: "math.ST", Label: "Statistics Theory", Group: "Mathematics"},
	{ID: "math.PR", Label: "Probability", Group: "Mathematics"},
	{ID: "physics.pop-ph", Label: "Popular Physics", Group: "Physics"},
	{ID: "astro-ph", Label: "Astrophysics", Group: "Physics"},
	{ID: "quant-ph", Label: "Quantum Physics", Group: "Physics"},
	{ID: "q-bio.NC", Label: "Neurons & Cognition", Group: "Biology"},
	{ID: "q-bio.GN", Label: "Genomics", Group: "Biology"},
	{ID: "econ.GN", Label: "General Economics", Group: "Economics"},
	{ID: "eess.SP", Label: "Signal Processing", Group: "Engineering"},
}
