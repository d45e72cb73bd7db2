package equipment

import "context"

// ListFilter narrows List queries. Page is 1-based; Limit is capped by the
// repository implementation.
type ListFilter struct {
	CategoryID *uint64
	Search     string
	Page       int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, e *Equipment) error
	Save(ctx context.Context, e *Equipment) error
	GetByID(ctx context.Context, id uint64) (*Equipment, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction. Only meaningful on a tx-bound repository.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Equipment, error)
	GetByBarcode(ctx context.Context, code string) (*Equipment, error)
	// ExistsSerial reports whether an active unit already carries the serial.
	ExistsSerial(ctx context.Context, serial string) (bool, error)
	// NextSequence returns the next free NNNNN for a TYPE-YY barcode prefix.
	// Soft-deleted units keep their numbers; sequences are never reissued.
	NextSequence(ctx context.Context, prefix string) (int, error)
	List(ctx context.Context, f ListFilter) ([]Equipment, int64, error)
	SoftDelete(ctx context.Context, id uint64, deletedBy uint64) error

	GetCategory(ctx context.Context, id uint64) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]Category, error)
}
