package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateTime(t *testing.T) {
	cases := []struct {
		in     string
		expect string
		ok     bool
	}{
		{"20:30", "20:30", true},
		{"9:05", "09:05", true},
		{"23:59", "23:59", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"nonsense", "", false},
		{"12:34:56", "", false},
	}
	for _, test := range cases {
		got, ok := ValidateTime(test.in)
		require.Equal(t, test.ok, ok, "input %q", test.in)
		require.Equal(t, test.expect, got, "input %q", test.in)
	}
}

func TestExtractTimeGreekLabel(t *testing.T) {
	field := Extract([]byte(`<div>Ώρα: 20:30</div>`), KindTime)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, "20:30", field.Value)
}

func TestExtractTimeScoring(t *testing.T) {
	// an evening round time must beat an afternoon one regardless of
	// document position
	html := `<p>doors 14:00</p><p>concert Ώρα 20:30</p>`
	field := Extract([]byte(html), KindTime)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, "20:30", field.Value)
	require.Greater(t, field.Confidence, 4)
}

func TestExtractTimeDiscardsEarlyMorning(t *testing.T) {
	field := Extract([]byte(`opens at 06:30`), KindTime)
	require.Equal(t, OutcomeNotFound, field.Outcome)
}

func TestExtractTimeDeterministic(t *testing.T) {
	payload := []byte(`<div>Ημερομηνία: Σάββατο 21:00</div><span>19:00</span>`)
	first := Extract(payload, KindTime)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Extract(payload, KindTime))
	}
}

func TestExtractTimeTieBreakByPattern(t *testing.T) {
	// both 21:00 candidates carry the same score; the labeled pattern
	// declared first must win over the bare-time pattern
	html := `<span>20:00</span> Ώρα: 21:00`
	field := Extract([]byte(html), KindTime)
	require.Equal(t, "21:00", field.Value)
}

func TestExtractTimeJSONLD(t *testing.T) {
	html := `<script type="application/ld+json">{"startDate": "2025-11-15T19:30:00+02:00"}</script>`
	field := Extract([]byte(html), KindTime)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, "19:30", field.Value)
}

func TestExtractAllDayShortCircuit(t *testing.T) {
	// the phone-number-like substring would otherwise match the bare
	// time pattern
	html := `<p>Όλη μέρα</p><p>τηλ 21:03 22 33</p>`
	field := Extract([]byte(html), KindTime)
	require.Equal(t, OutcomeAllDay, field.Outcome)
	require.Empty(t, field.Value)
}

func TestExtractPriceCommaDecimal(t *testing.T) {
	field := Extract([]byte(`Εισιτήρια: €15,50`), KindPrice)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, 15.50, field.Amount)
	require.Equal(t, "EUR", field.Currency)
	require.Empty(t, field.Range)
}

func TestExtractPriceRejectsOutOfBound(t *testing.T) {
	field := Extract([]byte(`VIP table €1500`), KindPrice)
	require.Equal(t, OutcomeNotFound, field.Outcome)

	field = Extract([]byte(`free entry €0`), KindPrice)
	require.Equal(t, OutcomeNotFound, field.Outcome)
}

func TestExtractPriceRange(t *testing.T) {
	field := Extract([]byte(`Τιμές: €10-€20`), KindPrice)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, 10.0, field.Amount)
	require.Equal(t, "€10-€20", field.Range)
	require.Equal(t, "EUR", field.Currency)
}

func TestExtractPriceGreekForms(t *testing.T) {
	field := Extract([]byte(`Κόστος 20 ευρώ`), KindPrice)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, 20.0, field.Amount)

	field = Extract([]byte(`προπώληση: €12`), KindPrice)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, 12.0, field.Amount)
}

func TestExtractDescription(t *testing.T) {
	html := `
	<div id="r_summaryText">
	  <div class="r_descriptionText">
	    <p>Μια παράσταση για όλους.</p>
	    <p></p>
	    <p>Second paragraph.</p>
	  </div>
	</div>
	<div class="r_castText">
	  <p>Σκηνοθεσία: Κάποιος</p>
	</div>`

	field := Extract([]byte(html), KindDescription)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Contains(t, field.Value, "Μια παράσταση για όλους.")
	require.Contains(t, field.Value, "Second paragraph.")
	require.Contains(t, field.Value, CastMarker)
	require.Contains(t, field.Value, "Σκηνοθεσία: Κάποιος")
}

func TestExtractDescriptionWrappedLines(t *testing.T) {
	// source markup wraps paragraphs across lines; the break must read
	// as a word separator in the assembled text
	html := "<div id=\"r_summaryText\"><div class=\"r_descriptionText\">" +
		"<p>Μια παράσταση\nγια όλους\n\tτους θεατές.</p>" +
		"</div></div>"

	field := Extract([]byte(html), KindDescription)
	require.Equal(t, OutcomeFound, field.Outcome)
	require.Equal(t, "Μια παράσταση για όλους τους θεατές.", field.Value)
}

func TestExtractDescriptionMissing(t *testing.T) {
	field := Extract([]byte(`<div class="unrelated">nothing here</div>`), KindDescription)
	require.Equal(t, OutcomeNotFound, field.Outcome)
}
