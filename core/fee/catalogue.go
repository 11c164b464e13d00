package fee

import "sort"

// Subject is an examinable subject; practical subjects carry an extra fee.
type Subject struct {
	Name        string `json:"name"`
	IsPractical bool   `json:"isPractical"`
}

// Catalogue indexes subjects by name.
type Catalogue struct {
	subjects []Subject
	byName   map[string]Subject
}

func NewCatalogue(subjects ...Subject) *Catalogue {
	cat := &Catalogue{
		subjects: make([]Subject, 0, len(subjects)),
		byName:   make(map[string]Subject, len(subjects)),
	}
	for _, sub := range subjects {
		if _, dup := cat.byName[sub.Name]; dup {
			continue
		}
		cat.subjects = append(cat.subjects, sub)
		cat.byName[sub.Name] = sub
	}
	return cat
}

// Subjects returns the subjects in catalogue order.
func (cat *Catalogue) Subjects() []Subject {
	subs := make([]Subject, len(cat.subjects))
	copy(subs, cat.subjects)
	return subs
}

func (cat *Catalogue) Lookup(name string) (Subject, bool) {
	if cat == nil {
		return Subject{}, false
	}
	sub, ok := cat.byName[name]
	return sub, ok
}

// IsPractical reports false for unknown subjects.
func (cat *Catalogue) IsPractical(name string) bool {
	sub, ok := cat.Lookup(name)
	return ok && sub.IsPractical
}

// DefaultCatalogue is the GCE subject list offered by the school.
var DefaultCatalogue = NewCatalogue(
	Subject{Name: "English Language"},
	Subject{Name: "Mathematics"},
	Subject{Name: "Civic Education"},
	Subject{Name: "Agricultural Science", IsPractical: true},
	Subject{Name: "Computer Studies", IsPractical: true},
	Subject{Name: "Geography", IsPractical: true},
	Subject{Name: "Biology", IsPractical: true},
	Subject{Name: "Science", IsPractical: true},
	Subject{Name: "Religious Education 2044"},
	Subject{Name: "Religious Education 2046"},
	Subject{Name: "Commerce"},
	Subject{Name: "Principles of Accounts"},
	Subject{Name: "History"},
	Subject{Name: "Silozi"},
)

// Districts maps each province to its districts.
var Districts = map[string][]string{
	"Central":       {"Chibombo", "Chisamba", "Chitambo", "Itezhi-Tezhi", "Kabwe", "Kapiri Mposhi", "Luano", "Mkushi", "Mumbwa", "Ngabwe", "Serenje", "Shibuyunji"},
	"Copperbelt":    {"Chililabombwe", "Chingola", "Kalulushi", "Kitwe", "Luanshya", "Lufwanyama", "Masaiti", "Mpongwe", "Mufulira", "Ndola"},
	"Eastern":       {"Chadiza", "Chama", "Chasefu", "Chipata", "Chipangali", "Kasenengwa", "Katete", "Lumezi", "Lundazi", "Lusangazi", "Mambwe", "Nyimba", "Petauke", "Sinda", "Vubwi"},
	"Luapula":       {"Chembe", "Chiengi", "Chifunabuli", "Chipili", "Kawambwa", "Lunga", "Mansa", "Milenge", "Mwansabombwe", "Mwense", "Nchelenge", "Samfya"},
	"Lusaka":        {"Chilanga", "Chongwe", "Kafue", "Luangwa", "Lusaka", "Rufunsa"},
	"Muchinga":      {"Chinsali", "Isoka", "Kanchibiya", "Lavushimanda", "Mafinga", "Mpika", "Nakonde", "Shiwang'andu"},
	"Northern":      {"Chilubi", "Kaputa", "Kasama", "Lunte", "Lupososhi", "Luwingu", "Mbala", "Mporokoso", "Mpulungu", "Mungwi", "Nsama", "Senga Hill"},
	"North-Western": {"Chavuma", "Ikelenge", "Kabompo", "Kalumbila", "Kasempa", "Manyinga", "Mufumbwe", "Mushindamo", "Mwinilunga", "Solwezi", "Zambezi"},
	"Southern":      {"Chikankata", "Choma", "Gwembe", "Kalomo", "Kazungula", "Livingstone", "Mazabuka", "Monze", "Namwala", "Pemba", "Sinazongwe", "Zimba"},
	"Western":       {"Kalabo", "Kaoma", "Limulunga", "Luampa", "Lukulu", "Mitete", "Mongu", "Mulobezi", "Mwandi", "Nalolo", "Nkeyema", "Senanga", "Sesheke", "Shang'ombo", "Sioma", "Sikongo"},
}

// Provinces returns the province names sorted.
func Provinces() []string {
	names := make([]string, 0, len(Districts))
	for name := range Districts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
