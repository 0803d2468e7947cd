package ports

import "treedit/internal/domain"

// DocumentRepository reads and writes documents on disk
type DocumentRepository interface {
	Load(path string) (*domain.Node, Format, error)
	Save(path string, root *domain.Node, format Format) error
}
