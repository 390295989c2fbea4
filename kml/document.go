package kml

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kmleditor/normalization"
	"kmleditor/planner"
)

// mediaLinksDataName имя поля ExtendedData с основной ссылкой на медиа
const mediaLinksDataName = "gx_media_links"

// DefaultImageHeight высота встраиваемых изображений в пикселях
const DefaultImageHeight = 200

// PolygonInfo текущее содержимое одного полигона.
// Имя принадлежит документу и никогда не меняется редактором,
// предлагаться к изменению могут только описание и изображения.
type PolygonInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`      // Описание как есть, с разметкой
	DescriptionText string   `json:"description_text"` // Текст описания без разметки
	Images          []string `json:"images"`           // URL из img-тегов описания
	MediaLinks      []string `json:"media_links"`      // Значение gx_media_links
}

// Existing переводит информацию о полигоне в форму для планировщика.
func (p *PolygonInfo) Existing() *planner.ExistingPolygon {
	return &planner.ExistingPolygon{
		Name:            p.Name,
		DescriptionText: p.DescriptionText,
		Images:          p.Images,
	}
}

// Document загруженный KML-документ.
// Владеет деревом целиком: парсинг, поиск полигонов, применение планов
// и сериализация с сохранением незатронутой структуры.
type Document struct {
	path        string
	root        *xmlNode
	ImageHeight int // Высота img-тегов при встраивании изображений
}

// Load читает и разбирает KML-файл.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read KML file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.path = path
	return doc, nil
}

// Parse разбирает KML из байтов.
func Parse(data []byte) (*Document, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, ImageHeight: DefaultImageHeight}, nil
}

// Path возвращает путь исходного файла (пустой для Parse).
func (d *Document) Path() string {
	return d.path
}

// placemarks возвращает все Placemark с полигонами в порядке документа.
func (d *Document) placemarks() []*xmlNode {
	var result []*xmlNode
	d.root.walk(func(n *xmlNode) {
		if n.is("Placemark") && n.find("Polygon") != nil {
			result = append(result, n)
		}
	})
	return result
}

// placemarkName возвращает имя placemark, очищенное от переносов строк
// и лишних пробелов. Невидимые символы сохраняются: это отображаемое имя,
// а не ключ сравнения.
func placemarkName(pm *xmlNode) string {
	name := pm.find("name")
	if name == nil {
		return "Unnamed Polygon"
	}
	return normalization.CollapseWhitespace(name.Text)
}

// PolygonNames возвращает имена всех полигонов в порядке документа.
func (d *Document) PolygonNames() []string {
	pms := d.placemarks()
	names := make([]string, 0, len(pms))
	for _, pm := range pms {
		names = append(names, placemarkName(pm))
	}
	return names
}

// findPlacemark ищет placemark по имени полигона из документа.
func (d *Document) findPlacemark(name string) *xmlNode {
	for _, pm := range d.placemarks() {
		if placemarkName(pm) == name {
			return pm
		}
	}
	return nil
}

// Polygon возвращает текущее содержимое полигона по его имени из документа.
func (d *Document) Polygon(name string) (*PolygonInfo, error) {
	pm := d.findPlacemark(name)
	if pm == nil {
		return nil, fmt.Errorf("polygon %q not found in document", name)
	}

	info := &PolygonInfo{Name: placemarkName(pm)}

	if desc := pm.find("description"); desc != nil {
		info.Description = desc.Text
		info.DescriptionText, info.Images = parseDescriptionHTML(desc.Text)
	}

	if link := mediaLinksValue(pm); link != "" {
		info.MediaLinks = []string{link}
	}

	return info, nil
}

// parseDescriptionHTML извлекает из HTML-описания чистый текст
// и список URL встроенных изображений.
func parseDescriptionHTML(html string) (text string, images []string) {
	if html == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Невалидная разметка: считаем содержимое обычным текстом
		return normalization.CollapseWhitespace(html), nil
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			images = append(images, src)
		}
	})

	return normalization.CollapseWhitespace(doc.Text()), images
}

// mediaLinksValue возвращает значение поля gx_media_links, если оно есть.
func mediaLinksValue(pm *xmlNode) string {
	extended := pm.child("ExtendedData")
	if extended == nil {
		return ""
	}
	for _, data := range extended.Children {
		if data.is("Data") && data.attr("name") == mediaLinksDataName {
			if value := data.child("value"); value != nil {
				return strings.TrimSpace(value.Text)
			}
		}
	}
	return ""
}

// Apply записывает план обновления в документ.
//
// Описание собирается заново: img-теги фиксированной высоты с автошириной,
// каждый с переносом строки, затем текст. Primary media link дублируется
// в поле gx_media_links. Геометрия и остальная структура placemark
// не затрагиваются.
func (d *Document) Apply(plan planner.UpdatePlan) error {
	pm := d.findPlacemark(plan.TargetName)
	if pm == nil {
		return fmt.Errorf("polygon %q not found in document", plan.TargetName)
	}

	desc := pm.find("description")
	if desc == nil {
		desc = pm.ensureChild("description")
	}
	desc.Text = d.renderDescription(plan)
	desc.Children = nil

	if plan.PrimaryMediaLink != "" {
		d.setMediaLink(pm, plan.PrimaryMediaLink)
	}

	return nil
}

// renderDescription собирает HTML-тело описания из плана.
func (d *Document) renderDescription(plan planner.UpdatePlan) string {
	height := d.ImageHeight
	if height <= 0 {
		height = DefaultImageHeight
	}

	var b strings.Builder
	if len(plan.NewImages) > 0 {
		for _, url := range plan.NewImages {
			fmt.Fprintf(&b, `<img src="%s" height="%d" width="auto" /><br>`, url, height)
		}
		b.WriteString("<br>")
	}
	b.WriteString(plan.NewDescription)
	return b.String()
}

// setMediaLink выставляет значение gx_media_links в ExtendedData.
func (d *Document) setMediaLink(pm *xmlNode, link string) {
	extended := pm.ensureChild("ExtendedData")

	for _, data := range extended.Children {
		if data.is("Data") && data.attr("name") == mediaLinksDataName {
			data.ensureChild("value").Text = link
			return
		}
	}

	data := newKMLNode("Data", "")
	data.setAttr("name", mediaLinksDataName)
	data.Children = append(data.Children, newKMLNode("value", link))
	extended.Children = append(extended.Children, data)
}

// Bytes сериализует документ.
func (d *Document) Bytes() []byte {
	return serialize(d.root)
}

// Save записывает документ в файл.
//
// При перезаписи существующего файла сначала создается резервная копия
// с суффиксом .bak рядом с оригиналом.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return fmt.Errorf("no output path: document was parsed from memory")
	}

	if original, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", original, 0644); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}
	}

	if err := os.WriteFile(path, d.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save KML file: %w", err)
	}
	return nil
}
