package extract

import (
	"bytes"
	"strings"

	"agora-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	descriptionSelector = "#r_summaryText .r_descriptionText p"
	castSelector        = ".r_castText p"

	// distinguishes the appended cast block so downstream consumers can
	// detect its presence
	CastMarker = "=== ΣΥΝΤΕΛΕΣΤΕΣ / CAST & CREW ==="
)

func extractDescription(payload []byte) Field {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return notFound(KindDescription)
	}

	parts := htmlutil.Paragraphs(doc.Find(descriptionSelector))

	if cast := htmlutil.Paragraphs(doc.Find(castSelector)); len(cast) > 0 {
		parts = append(parts, CastMarker+"\n"+strings.Join(cast, "\n\n"))
	}

	if len(parts) == 0 {
		return notFound(KindDescription)
	}

	return Field{
		Kind:    KindDescription,
		Outcome: OutcomeFound,
		Value:   strings.Join(parts, "\n\n"),
	}
}
