// Package services provides application-level services that orchestrate
// cache, listener registry, and document store access for the menu API.
package services

import "fmt"

// Document path layout. The legacy schema keeps one flat menu per
// business, the multi-menu schema nests categories under each menu.
func businessPath(businessID string) string {
	return fmt.Sprintf("businesses/%s", businessID)
}

func businessesCollection() string {
	return "businesses"
}

func menusPath(businessID string) string {
	return fmt.Sprintf("businesses/%s/menus", businessID)
}

func menuCategoriesPath(businessID, menuID string) string {
	return fmt.Sprintf("businesses/%s/menus/%s/categories", businessID, menuID)
}

func menuItemsPath(businessID, menuID, categoryID string) string {
	return fmt.Sprintf("businesses/%s/menus/%s/categories/%s/items", businessID, menuID, categoryID)
}

func legacyCategoriesPath(businessID string) string {
	return fmt.Sprintf("businesses/%s/menu", businessID)
}

func legacyItemsPath(businessID, categoryID string) string {
	return fmt.Sprintf("businesses/%s/menu/%s/items", businessID, categoryID)
}

func announcementsPath(businessID string) string {
	return fmt.Sprintf("businesses/%s/announcements", businessID)
}
