package wikipedia

// Seed search terms per topic. Each page request picks a few seeds at
// random and expands them through the search endpoint.
var topicSeeds = map[string][]string{
	"science": {
		"Physics", "Chemistry", "Biology", "Astronomy", "Mathematics",
		"Genetics", "Neuroscience", "Ecology", "Quantum_mechanics",
	},
	"history": {
		"Ancient_history", "Medieval_history", "World_War_II", "Roman_Empire",
		"Renaissance", "Industrial_Revolution", "Ancient_Egypt", "Viking_Age",
	},
	"technology": {
		"Computer_science", "Artificial_intelligence", "Internet",
		"Robotics", "Space_exploration", "Nuclear_technology", "Biotechnology",
	},
	"arts": {
		"Renaissance_art", "Impressionism", "Classical_music", "Jazz",
		"Film_history", "Literature", "Architecture", "Photography",
	},
	"geography": {
		"Mountain", "Ocean", "Desert", "River", "Island", "Volcano",
		"Rainforest", "National_park",
	},
	"nature": {
		"Endangered_species", "Marine_biology", "Paleontology", "Botany",
		"Ornithology", "Climate", "Geology", "Evolution",
	},
	"philosophy": {
		"Ethics", "Existentialism", "Logic", "Metaphysics",
		"Philosophy_of_mind", "Stoicism", "Eastern_philosophy",
	},
	"sports": {
		"Olympic_Games", "Football", "Tennis", "Basketball",
		"Cricket", "Athletics_(sport)", "Swimming_(sport)",
	},
}

// Topics lists the topics users can select, in display order.
func Topics() []string {
	return []string{
		"science", "history", "technology", "arts",
		"geography", "nature", "philosophy", "sports",
	}
}
