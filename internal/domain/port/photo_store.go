package port

// PhotoStore файловое хранилище фотографий
type PhotoStore interface {
	Save(prefix string, data []byte) (string, error)
	Path(filename string) (string, error)
	Remove(filename string) error
}
