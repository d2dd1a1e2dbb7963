package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	domcart "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

type productRecord struct {
	Name        string `koanf:"name" validate:"required"`
	Description string `koanf:"description"`
	Image       string `koanf:"image" validate:"omitempty,uri"`
	Cost        string `koanf:"cost" validate:"required,startswith=$"`
	Category    string `koanf:"category"`
}

type document struct {
	Products []productRecord `koanf:"products" validate:"dive"`
}

// Load reads a YAML product list. An empty path yields an empty catalog.
// Every product must carry a name and a cost that entry construction accepts.
func Load(path string) ([]domcatalog.Product, error) {
	if path == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog: file %q not found: %w", path, err)
		}
		return nil, fmt.Errorf("catalog: load %q: %w", path, err)
	}

	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", path, err)
	}
	// Names are catalog keys and must match the trimmed names cart entries carry.
	for i := range doc.Products {
		doc.Products[i].Name = strings.TrimSpace(doc.Products[i].Name)
		doc.Products[i].Cost = strings.TrimSpace(doc.Products[i].Cost)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("catalog: validate %q: %w", path, err)
	}

	products := make([]domcatalog.Product, 0, len(doc.Products))
	for i, rec := range doc.Products {
		if _, err := domcart.ParseCost(rec.Cost); err != nil {
			return nil, fmt.Errorf("catalog: product %d (%s): %w", i, rec.Name, err)
		}
		products = append(products, domcatalog.Product{
			Name:        rec.Name,
			Description: rec.Description,
			Image:       rec.Image,
			Cost:        rec.Cost,
			Category:    rec.Category,
		})
	}
	return products, nil
}
