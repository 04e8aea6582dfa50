package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astral1119/formulary-setup/internal/config"
)

// Category names one kind of persisted user data under the install
// root. The uninstall inventory and purge walk this table uniformly, so
// adding a category never touches control flow.
type Category struct {
	Name        string
	Description string
	Rel         string
}

// Path returns the category's absolute location under root.
func (c Category) Path(root string) string {
	return filepath.Join(root, filepath.FromSlash(c.Rel))
}

// Categories lists every user-data category in presentation order.
func Categories() []Category {
	return []Category{
		{Name: "configuration", Description: "settings (sheet URL, options)", Rel: config.ConfigTOML},
		{Name: "auth profiles", Description: "browser authentication profiles", Rel: config.ProfilesSubdir},
		{Name: "profile index", Description: "profile registry", Rel: config.ProfilesJSON},
		{Name: "browser choice", Description: "persisted engine selection", Rel: config.BrowserChoice},
		{Name: "artifact cache", Description: "cached package downloads", Rel: config.CacheSubdir},
	}
}

// PresentCategories returns the categories that exist on disk.
func PresentCategories(root string) []Category {
	var present []Category
	for _, c := range Categories() {
		if _, err := os.Stat(c.Path(root)); err == nil {
			present = append(present, c)
		}
	}
	return present
}

// PurgeCategories removes every listed category. The purge is
// all-or-nothing at the call site; here each removal is attempted even
// if an earlier one fails, and the first error is reported.
func PurgeCategories(root string, categories []Category) error {
	var firstErr error
	for _, c := range categories {
		if err := os.RemoveAll(c.Path(root)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", c.Name, err)
		}
	}
	return firstErr
}
