package entity

import "image"

// ImageSample — изображение, подготовленное к одной проверке.
// Живёт ровно один прогон конвейера и после него выбрасывается.
type ImageSample struct {
	SourceURL string      // откуда скачано (пусто для фото из чата)
	Raw       []byte      // исходные закодированные байты
	Decoded   image.Image // раскодированный растр, nil если декодирование не удалось
	Format    string      // метка формата: jpeg, png, gif
}

// MediaType возвращает MIME-тип для запроса к модели.
func (s *ImageSample) MediaType() string {
	if s.Format == "" {
		return "image/png"
	}
	return "image/" + s.Format
}
