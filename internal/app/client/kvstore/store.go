package kvstore

// Store — персистентное key-value хранилище клиента.
// Поверх него работают кэш записей, журнал отложенных операций
// и хранилище учетных данных сессии.
type Store interface {
	// Get возвращает значение и признак его наличия
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
