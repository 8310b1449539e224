package catalog

import "celebrisaludos/internal/models"

var defaultPackages = []models.ShoutoutPackage{
	{
		ID:          "pkg_basic_01",
		Name:        "Saludo Rápido",
		Description: "Un videomensaje personalizado, corto y dulce.",
		Price:       49.99,
		Features:    []string{"Video Personalizado", "Entrega en 7 días", "Hasta 30 segundos"},
		Image:       "https://picsum.photos/seed/pkg_basic_01/400/300",
	},
	{
		ID:          "pkg_standard_02",
		Name:        "Saludo Estándar",
		Description: "Un videomensaje más detallado para cualquier ocasión.",
		Price:       99.99,
		Features:    []string{"Video Personalizado", "Entrega en 5 días", "Hasta 60 segundos", "Calidad HD"},
		Image:       "https://picsum.photos/seed/pkg_standard_02/400/300",
	},
	{
		ID:          "pkg_premium_03",
		Name:        "Experiencia Premium",
		Description: "El saludo definitivo con características extra.",
		Price:       199.99,
		Features:    []string{"Video Personalizado", "Entrega en 3 días", "Hasta 90 segundos", "Calidad Full HD", "Soporte Prioritario"},
		Image:       "https://picsum.photos/seed/pkg_premium_03/400/300",
	},
}

// Catalog is read-only after construction.
type Catalog struct {
	packages []models.ShoutoutPackage
	byID     map[string]models.ShoutoutPackage
}

func New(packages []models.ShoutoutPackage) *Catalog {
	c := &Catalog{
		packages: make([]models.ShoutoutPackage, 0, len(packages)),
		byID:     make(map[string]models.ShoutoutPackage, len(packages)),
	}
	for _, pkg := range packages {
		pkg.Features = append([]string(nil), pkg.Features...)
		c.packages = append(c.packages, pkg)
		c.byID[pkg.ID] = pkg
	}
	return c
}

func Default() *Catalog {
	return New(defaultPackages)
}

// FromConfig falls back to the built-in packages when none are configured.
func FromConfig(packages []models.ShoutoutPackage) *Catalog {
	if len(packages) == 0 {
		return Default()
	}
	return New(packages)
}

func (c *Catalog) Find(id string) (models.ShoutoutPackage, bool) {
	pkg, ok := c.byID[id]
	return pkg, ok
}

func (c *Catalog) List() []models.ShoutoutPackage {
	out := make([]models.ShoutoutPackage, len(c.packages))
	copy(out, c.packages)
	return out
}
