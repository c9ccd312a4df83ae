package services

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"wayfarer/internal/models/db_models"
)

// cityEntry maps a lowercase city name or airport abbreviation to its IATA
// code. Lookup tries longer keys first so "new york" wins over "nyc" when
// both would match, rather than depending on map iteration order.
type cityEntry struct {
	key  string
	code string
}

var cityLookup = []cityEntry{
	{"new york", "JFK"}, {"nyc", "JFK"}, {"jfk", "JFK"},
	{"los angeles", "LAX"}, {"la", "LAX"}, {"lax", "LAX"},
	{"chicago", "ORD"}, {"ord", "ORD"},
	{"san francisco", "SFO"}, {"sf", "SFO"}, {"sfo", "SFO"},
	{"miami", "MIA"}, {"mia", "MIA"},
	{"dallas", "DFW"}, {"dfw", "DFW"},
	{"seattle", "SEA"}, {"sea", "SEA"},
	{"boston", "BOS"}, {"bos", "BOS"},
	{"london", "LHR"}, {"lhr", "LHR"},
	{"paris", "CDG"}, {"cdg", "CDG"},
	{"tokyo", "TYO"}, {"tyo", "TYO"},
	{"osaka", "KIX"}, {"kix", "KIX"},
	{"rome", "FCO"}, {"fco", "FCO"},
	{"barcelona", "BCN"}, {"bcn", "BCN"},
	{"madrid", "MAD"}, {"mad", "MAD"},
	{"amsterdam", "AMS"}, {"ams", "AMS"},
	{"bangkok", "BKK"}, {"bkk", "BKK"},
	{"sydney", "SYD"}, {"syd", "SYD"},
	{"dubai", "DXB"}, {"dxb", "DXB"},
	{"singapore", "SIN"}, {"sin", "SIN"},
	{"hong kong", "HKG"}, {"hkg", "HKG"},
	{"seoul", "ICN"}, {"icn", "ICN"},
	{"mexico city", "MEX"}, {"mex", "MEX"},
	{"toronto", "YYZ"}, {"yyz", "YYZ"},
	{"vancouver", "YVR"}, {"yvr", "YVR"},
	{"cancun", "CUN"}, {"cun", "CUN"},
	{"bali", "DPS"}, {"dps", "DPS"},
	{"berlin", "BER"}, {"ber", "BER"},
	{"munich", "MUC"}, {"muc", "MUC"},
	{"zurich", "ZRH"}, {"zrh", "ZRH"},
	{"vienna", "VIE"}, {"vie", "VIE"},
	{"istanbul", "IST"}, {"ist", "IST"},
	{"cairo", "CAI"}, {"cai", "CAI"},
	{"cape town", "CPT"}, {"cpt", "CPT"},
}

func init() {
	sort.SliceStable(cityLookup, func(i, j int) bool {
		return len(cityLookup[i].key) > len(cityLookup[j].key)
	})
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Month-only keys in a fixed order so full names win over their own
// abbreviations ("september" before "sep").
var monthKeys = []string{
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sept", "sep",
	"oct", "nov", "dec",
}

var (
	originRe    = regexp.MustCompile(`\bfrom\s+([a-z ]+?)(?:\s+to|\s+in|\s+for|,|$)`)
	dateRe      = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)
	daysRe      = regexp.MustCompile(`(\d+)\s+days?`)
	weeksRe     = regexp.MustCompile(`(\d+)\s+weeks?`)
	budgetRe    = regexp.MustCompile(`\$\s?([\d,]+)`)
	underRe     = regexp.MustCompile(`under\s+([\d,]+)`)
	travelersRe = regexp.MustCompile(`(\d+)\s+(?:people|travelers?|passengers?|adults?)`)
	areaRe      = regexp.MustCompile(`\bnear\s+([a-z ]+?)(?:\s*,|\s*\.|\s+and|\s+under|\s+budget|$)`)
)

// NewRuleBasedTripParser builds the parser used when no LLM credential is
// configured.
func NewRuleBasedTripParser() TripParserInterface {
	return &ruleBasedTripParser{now: time.Now}
}

type ruleBasedTripParser struct {
	now func() time.Time
}

func (p *ruleBasedTripParser) Parse(_ context.Context, rawRequest string) (*db_models.TripSpec, error) {
	text := strings.ToLower(rawRequest)
	today := p.now()

	spec := &db_models.TripSpec{
		NumTravelers: 1,
		CabinClass:   db_models.CabinEconomy,
	}

	for _, entry := range cityLookup {
		if strings.Contains(text, entry.key) {
			spec.Destination = strPtr(entry.code)
			spec.DestinationCity = strPtr(titleCase(entry.key))
			break
		}
	}

	if m := originRe.FindStringSubmatch(text); m != nil {
		fromCity := strings.TrimSpace(m[1])
		for _, entry := range cityLookup {
			if entry.key == fromCity {
				spec.Origin = strPtr(entry.code)
				break
			}
		}
	}

	var departDate *time.Time
	for _, name := range monthKeys {
		if !strings.Contains(text, name) {
			continue
		}
		month := monthNames[name]
		year := today.Year()
		// Roll to next year when the month already passed, or it is the
		// current month and the first-Friday window is gone.
		if month < today.Month() || (month == today.Month() && today.Day() > 15) {
			year++
		}
		d := firstFriday(year, month)
		departDate = &d
		break
	}

	if m := dateRe.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[m[1]]; ok {
			day, _ := strconv.Atoi(m[2])
			candidate := time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC)
			if candidate.Before(dateOnly(today)) {
				candidate = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, time.UTC)
			}
			departDate = &candidate
		}
	}

	durationDays := 0
	if m := daysRe.FindStringSubmatch(text); m != nil {
		durationDays, _ = strconv.Atoi(m[1])
	} else if m := weeksRe.FindStringSubmatch(text); m != nil {
		weeks, _ := strconv.Atoi(m[1])
		durationDays = weeks * 7
	}

	if departDate != nil {
		spec.DepartDate = strPtr(departDate.Format("2006-01-02"))
		if durationDays > 0 {
			spec.ReturnDate = strPtr(departDate.AddDate(0, 0, durationDays).Format("2006-01-02"))
		}
	}

	if m := budgetRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			spec.BudgetTotal = &v
		}
	} else if m := underRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			spec.BudgetTotal = &v
		}
	}

	if m := travelersRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			spec.NumTravelers = v
		}
	}

	switch {
	case strings.Contains(text, "business class") || strings.Contains(text, "business seat"):
		spec.CabinClass = db_models.CabinBusiness
	case strings.Contains(text, "first class"):
		spec.CabinClass = db_models.CabinFirst
	case strings.Contains(text, "premium economy"):
		spec.CabinClass = db_models.CabinPremiumEconomy
	}

	if m := areaRe.FindStringSubmatch(text); m != nil {
		spec.HotelArea = strPtr(titleCase(strings.TrimSpace(m[1])))
	}

	return spec, nil
}

func firstFriday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func strPtr(s string) *string {
	return &s
}
