package entity

// Optional значение, которое может отсутствовать.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some создаёт заполненное значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None создаёт пустое значение.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get возвращает значение и признак его наличия.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present сообщает, есть ли значение.
func (o Optional[T]) Present() bool {
	return o.ok
}

// ModelMetrics сводка по артефакту модели.
type ModelMetrics struct {
	SizeMB Optional[float64] // размер файла модели
	MAP50  Optional[float64] // mAP@50 на валидации
	// ValidationErr причина, по которой MAP50 отсутствует.
	ValidationErr error
}
