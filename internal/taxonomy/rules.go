package taxonomy

import (
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
)

// Gender is the audience a product is classified for
type Gender string

const (
	Homme  Gender = "homme"
	Femme  Gender = "femme"
	Unisex Gender = "unisex"
)

// CategoryRule maps a keyword found in a raw category string to a category
type CategoryRule struct {
	Keyword  string          `yaml:"keyword"`
	Category models.Category `yaml:"category"`
}

// SubcategoryRule maps a keyword found in a raw subcategory string to a subcategory
type SubcategoryRule struct {
	Keyword     string `yaml:"keyword"`
	Subcategory string `yaml:"subcategory"`
}

// Taxonomy is the keyword data driving classification. Rule order matters:
// the first matching rule wins.
type Taxonomy struct {
	FemmeKeywords    []string          `yaml:"femme_keywords"`
	HommeKeywords    []string          `yaml:"homme_keywords"`
	CategoryRules    []CategoryRule    `yaml:"category_rules"`
	SubcategoryRules []SubcategoryRule `yaml:"subcategory_rules"`
	ExcludedKeywords []string          `yaml:"excluded_keywords"`
	// AccessoryKeywords identify product types that belong in an accessoires-* subcategory
	AccessoryKeywords []string `yaml:"accessory_keywords"`
}

// Default returns the storefront taxonomy
func Default() Taxonomy {
	return Taxonomy{
		FemmeKeywords: []string{
			"femme", "femmes", "woman", "women", "womens", "ladies", "lady",
			"dame", "dames", "damen", "féminin", "féminine", "feminine",
		},
		HommeKeywords: []string{
			"homme", "hommes", "man", "men", "mens", "gentleman", "gentlemen",
			"herren", "masculin", "masculine",
		},
		// Women's rules come first: "women" contains "men".
		CategoryRules: []CategoryRule{
			{"femme", models.WomensClothing},
			{"femmes", models.WomensClothing},
			{"women", models.WomensClothing},
			{"womens", models.WomensClothing},
			{"robe", models.WomensClothing},
			{"robes", models.WomensClothing},
			{"dress", models.WomensClothing},
			{"dresses", models.WomensClothing},
			{"top", models.WomensClothing},
			{"tops", models.WomensClothing},
			{"jupe", models.WomensClothing},
			{"jupes", models.WomensClothing},
			{"skirt", models.WomensClothing},
			{"skirts", models.WomensClothing},

			{"homme", models.MensClothing},
			{"hommes", models.MensClothing},
			{"men", models.MensClothing},
			{"mens", models.MensClothing},
			{"chemise", models.MensClothing},
			{"chemises", models.MensClothing},
			{"shirt", models.MensClothing},
			{"shirts", models.MensClothing},
			{"pantalon", models.MensClothing},
			{"pantalons", models.MensClothing},
			{"trousers", models.MensClothing},
			{"veste", models.MensClothing},
			{"vestes", models.MensClothing},
			{"jacket", models.MensClothing},
			{"jackets", models.MensClothing},
			{"pull", models.MensClothing},
			{"pulls", models.MensClothing},
			{"sweater", models.MensClothing},
			{"sweaters", models.MensClothing},

			{"accessoire", models.Accessories},
			{"accessoires", models.Accessories},
			{"accessory", models.Accessories},
			{"accessories", models.Accessories},
			{"montre", models.Accessories},
			{"montres", models.Accessories},
			{"watch", models.Accessories},
			{"watches", models.Accessories},
			{"sac", models.Accessories},
			{"sacs", models.Accessories},
			{"bag", models.Accessories},
			{"bags", models.Accessories},

			{"chaussure", models.Shoes},
			{"chaussures", models.Shoes},
			{"shoe", models.Shoes},
			{"shoes", models.Shoes},
			{"bottine", models.Shoes},
			{"bottines", models.Shoes},
			{"boot", models.Shoes},
			{"boots", models.Shoes},

			{"sport", models.Sport},
			{"sports", models.Sport},

			{"hiver", models.WinterClothing},
			{"winter", models.WinterClothing},
			{"doudoune", models.WinterClothing},
			{"parka", models.WinterClothing},
			{"manteau", models.WinterClothing},
		},
		SubcategoryRules: []SubcategoryRule{
			{"chemise", "chemises-homme"},
			{"pantalon", "pantalons-homme"},
			{"veste", "vestes-homme"},
			{"pull", "pulls-homme"},
			{"accessoire", "accessoires-homme"},
			{"robe", "robes-femme"},
			{"top", "tops-femme"},
			{"pantalon", "pantalons-femme"},
			{"jupe", "jupes-femme"},
			{"veste", "vestes-femme"},
			{"accessoire", "accessoires-femme"},
		},
		ExcludedKeywords: []string{
			"acceuil", "accueil", "boutique", "contact", "blog", "à propos", "a propos",
			"information", "emplacement", "apprenez", "notre", "nous", "connaître",
			"panier", "loading", "done", "ajouter", "produit en vente", "%", "📞",
			"phone", "téléphone", "tel:", "mailto:", "facebook", "instagram",
			"33 6 29", "29 61 06",
		},
		AccessoryKeywords: []string{
			"accessoire", "accessory", "sac", "bag", "portefeuille", "wallet",
			"ceinture", "belt", "montre", "watch", "lunettes", "glasses",
			"chapeau", "hat", "casquette", "cap", "écharpe", "scarf",
		},
	}
}

// WithGenderKeywords returns a copy of t with extra gender keywords appended.
// Sources with their own vocabulary (watches: "diamond", "diver") use this.
func (t Taxonomy) WithGenderKeywords(femme, homme []string) Taxonomy {
	out := t
	out.FemmeKeywords = append(append([]string{}, t.FemmeKeywords...), femme...)
	out.HommeKeywords = append(append([]string{}, t.HommeKeywords...), homme...)
	return out
}

// subcategoryCategory returns the category a subcategory key lives under
func subcategoryCategory(subcategory string) models.Category {
	switch {
	case strings.HasSuffix(subcategory, "-homme"):
		return models.MensClothing
	case strings.HasSuffix(subcategory, "-femme"):
		return models.WomensClothing
	}
	return ""
}
