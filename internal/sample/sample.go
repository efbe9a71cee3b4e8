// Package sample holds the built-in multilingual review dataset.
package sample

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/table"
)

// Reviews returns five reviews in each of English, German, French and
// Spanish, spread over products 101 to 104. Label is the star rating.
func Reviews() []model.Review {
	return []model.Review{
		{ID: "en_1", ProductID: 101, Label: 5, Text: "This is a great product. I love it! The battery life is amazing and it feels very premium."},
		{ID: "en_2", ProductID: 102, Label: 1, Text: "Terrible. It broke after two days of use. I want my money back. Do not buy this."},
		{ID: "en_3", ProductID: 103, Label: 4, Text: "Good value for money. Shipping was a bit slow but the item works as described."},
		{ID: "en_4", ProductID: 101, Label: 2, Text: "Not what I expected. The quality feels cheap and the color is off."},
		{ID: "en_5", ProductID: 104, Label: 5, Text: "Absolutely fantastic! Best purchase I've made this year. Highly recommended."},

		{ID: "de_1", ProductID: 101, Label: 5, Text: "Das Produkt ist ausgezeichnet. Die Verarbeitung ist top und der Preis ist fair."},
		{ID: "de_2", ProductID: 102, Label: 1, Text: "Schrecklich! Nach einer Woche kaputt. Kundenservice hilft nicht. Nie wieder."},
		{ID: "de_3", ProductID: 103, Label: 4, Text: "Gutes Produkt, aber die Lieferung hat lange gedauert. Ansonsten bin ich zufrieden."},
		{ID: "de_4", ProductID: 101, Label: 2, Text: "Enttäuschend. Sieht auf dem Bild besser aus als in der Realität."},
		{ID: "de_5", ProductID: 104, Label: 5, Text: "Ich bin begeistert! Funktioniert einwandfrei und sieht super aus."},

		{ID: "fr_1", ProductID: 101, Label: 5, Text: "C'est un produit incroyable. Je l'adore! La qualité est au rendez-vous."},
		{ID: "fr_2", ProductID: 102, Label: 1, Text: "Nul. Ne fonctionne pas du tout. Une perte d'argent totale."},
		{ID: "fr_3", ProductID: 103, Label: 4, Text: "Bon rapport qualité-prix. Un peu fragile mais ça fait l'affaire pour le prix."},
		{ID: "fr_4", ProductID: 101, Label: 2, Text: "Je suis déçu. La couleur ne correspond pas à la photo."},
		{ID: "fr_5", ProductID: 104, Label: 5, Text: "Parfait! Exactement ce que je cherchais. Livraison rapide et soignée."},

		{ID: "es_1", ProductID: 101, Label: 5, Text: "¡Este producto es genial! Me encanta. Vale cada centavo."},
		{ID: "es_2", ProductID: 102, Label: 1, Text: "Horrible. Se rompió al segundo uso. No lo recominedo para nada."},
		{ID: "es_3", ProductID: 103, Label: 4, Text: "Buen producto en general. Llegó un poco tarde pero funciona bien."},
		{ID: "es_4", ProductID: 101, Label: 2, Text: "No es lo que esperaba. La calidad deja mucho que desear."},
		{ID: "es_5", ProductID: 104, Label: 5, Text: "¡Excelente! Estoy muy feliz con mi compra. Lo compraría de nuevo."},
	}
}

// Write stores the sample dataset as an input table at path.
func Write(path string) (int, error) {
	reviews := Reviews()
	rows := make([]model.EnrichedReview, len(reviews))
	for i, r := range reviews {
		rows[i] = model.EnrichedReview{Review: r}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := table.WriteEnriched(path, model.InputColumns, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
