// internal/database/seed.go
package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
)

// SeedProducts inserts the demo catalogue. It does nothing when products
// already exist unless force is set.
func SeedProducts(ctx context.Context, s store.Store, force bool) (int, error) {
	products := repository.NewProductRepository(s)

	existing, err := products.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if existing > 0 && !force {
		logrus.WithField("existing", existing).Info("Products already present, skipping seed")
		return 0, nil
	}

	created, err := products.CreateMany(ctx, demoProducts())
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	logrus.WithField("count", len(created)).Info("Seeded demo products")
	return len(created), nil
}

func demoProducts() []models.Product {
	return []models.Product{
		{
			Name:          "One Piece Vol. 1",
			Description:   "Monkey D. Luffy sets out to become King of the Pirates.",
			Category:      models.CategoryManga,
			Price:         450,
			OriginalPrice: 500,
			Stock:         25,
			Author:        "Eiichiro Oda",
			Publisher:     "VIZ Media",
			PrintType:     "Original",
			Volume:        "1",
			Language:      "English",
			Genres:        []string{"Action", "Adventure", "Comedy"},
			Tags:          []string{"shonen", "bestseller"},
			Available:     true,
			Featured:      true,
		},
		{
			Name:        "Jujutsu Kaisen Vol. 0",
			Description: "The prequel that introduces Yuta Okkotsu.",
			Category:    models.CategoryManga,
			Price:       380,
			Stock:       12,
			Author:      "Gege Akutami",
			Publisher:   "VIZ Media",
			PrintType:   "Local Print",
			Volume:      "0",
			Language:    "English",
			Genres:      []string{"Action", "Supernatural"},
			Tags:        []string{"shonen"},
			Available:   true,
		},
		{
			Name:        "Sword Art Online: Aincrad",
			Description: "The first light novel of the Sword Art Online series.",
			Category:    models.CategoryLightNovel,
			Price:       650,
			Stock:       4,
			Author:      "Reki Kawahara",
			Publisher:   "Yen On",
			PrintType:   "Original",
			Volume:      "1",
			Language:    "English",
			Genres:      []string{"Fantasy", "Sci-Fi"},
			Available:   true,
		},
		{
			Name:        "Nendoroid Gojo Satoru",
			Description: "Poseable figure with interchangeable faces.",
			Category:    models.CategoryFigures,
			Price:       3200,
			Stock:       3,
			Tags:        []string{"nendoroid", "import"},
			Available:   true,
			Featured:    true,
		},
		{
			Name:        "Akatsuki Cloud Keychain",
			Description: "Metal keychain with the Akatsuki cloud emblem.",
			Category:    models.CategoryAccessories,
			Price:       150,
			Stock:       60,
			Tags:        []string{"naruto"},
			Available:   true,
		},
		{
			Name:        "Survey Corps Hoodie",
			Description: "Fleece hoodie with the Wings of Freedom print.",
			Category:    models.CategoryClothing,
			Price:       1200,
			Stock:       0,
			Tags:        []string{"attack-on-titan"},
			Available:   true,
		},
		{
			Name:        "The Art of Demon Slayer",
			Description: "Official illustration collection.",
			Category:    models.CategoryArtBooks,
			Price:       2500,
			Stock:       2,
			Author:      "Koyoharu Gotouge",
			Publisher:   "Shueisha",
			Language:    "Japanese",
			Available:   true,
		},
	}
}
