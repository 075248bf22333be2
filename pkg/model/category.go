package model

// Category is a node in the five-level category tree. Level is 0..4;
// (ParentID, Level, Name) is unique, enforced by pkg/catalog.
type Category struct {
	ID       int64
	ParentID int64 // 0 means root
	Level    int
	Name     string
}

// CategoryCount pairs a category with the number of packages that match it
// at a given level, returned by DBRepository.FindCategories.
type CategoryCount struct {
	Category
	Count int
}
