package entity

import "errors"

var (
	// ErrImageDecode изображение не читается: пустые, повреждённые или неподдерживаемые данные.
	ErrImageDecode = errors.New("image decode failed")

	// ErrImageProcessing не удалось изменить размер или нормализовать изображение.
	ErrImageProcessing = errors.New("image processing failed")

	// ErrModelLoad модель классификатора недоступна.
	ErrModelLoad = errors.New("model load failed")
)
