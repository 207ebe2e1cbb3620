package categories

// CreateCategoryInput carries a new category from an admin.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateCategoryInput carries partial category changes from an admin.
type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
