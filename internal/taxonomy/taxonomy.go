// Package taxonomy is the fixed catalog of tactical categories and
// subcategories notes are classified under. It is a pure lookup table;
// unknown keys fall back to themselves so documents created by newer
// versions keep exporting.
package taxonomy

// Category keys.
const (
	OrgDef   = "org-def"
	TransDef = "trans-def"
	OrgOf    = "org-of"
	TransOf  = "trans-of"
	Bolas    = "bolas"
)

var categoryLabels = map[string]string{
	OrgDef:   "ORGANIZAÇÃO DEFENSIVA",
	TransDef: "TRANSIÇÃO DEFENSIVA",
	OrgOf:    "ORGANIZAÇÃO OFENSIVA",
	TransOf:  "TRANSIÇÃO OFENSIVA",
	Bolas:    "BOLAS PARADAS",
}

var subcategoryLabels = map[string]string{
	"bloco-alto":    "Bloco Alto / Pressão",
	"bloco-medio":   "Bloco Médio / Baixo",
	"reacao-perda":  "Reação à Perda",
	"recuo-critico": "Recuo Crítico",
	"construcao":    "Construção",
	"criacao":       "Criação",
	"transicao":     "Transição Ofensiva",
	"ofensivas":     "Ofensivas",
	"defensivas":    "Defensivas",
}

// CategoryLabel returns the display label for a category key, or the key
// itself when unmapped.
func CategoryLabel(key string) string {
	if l, ok := categoryLabels[key]; ok {
		return l
	}
	return key
}

// SubcategoryLabel returns the display label for a subcategory key, or
// the key itself when unmapped.
func SubcategoryLabel(key string) string {
	if l, ok := subcategoryLabels[key]; ok {
		return l
	}
	return key
}

// Categories returns every known category key.
func Categories() []string {
	return []string{OrgDef, TransDef, OrgOf, TransOf, Bolas}
}

// Subcategories returns every known subcategory key.
func Subcategories() []string {
	return []string{
		"bloco-alto", "bloco-medio", "reacao-perda", "recuo-critico",
		"construcao", "criacao", "transicao", "ofensivas", "defensivas",
	}
}
