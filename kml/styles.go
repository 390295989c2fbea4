package kml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Идентификаторы общих стилей на уровне Document
const (
	noIconStyleID        = "noIconStyle"
	sharedPolygonStyleID = "shared_polygon_style"
)

// document возвращает узел Document, создавая его при отсутствии.
func (d *Document) document() *xmlNode {
	if doc := d.root.child("Document"); doc != nil {
		return doc
	}
	doc := newKMLNode("Document", "")
	d.root.Children = append([]*xmlNode{doc}, d.root.Children...)
	return doc
}

// findStyle ищет общий стиль по id в поддереве Document.
func findStyle(doc *xmlNode, id string) *xmlNode {
	var found *xmlNode
	doc.walk(func(n *xmlNode) {
		if found == nil && n.is("Style") && n.attr("id") == id {
			found = n
		}
	})
	return found
}

// ensureNoIconStyle создает общий стиль с невидимой иконкой
// для точек-подписей.
func (d *Document) ensureNoIconStyle() {
	doc := d.document()
	if findStyle(doc, noIconStyleID) != nil {
		return
	}

	style := newKMLNode("Style", "")
	style.setAttr("id", noIconStyleID)

	iconStyle := newKMLNode("IconStyle", "")
	iconStyle.Children = append(iconStyle.Children, newKMLNode("scale", "0"))
	style.Children = append(style.Children, iconStyle)

	doc.Children = append(doc.Children, style)
}

// AddLabelPoints оборачивает полигоны в MultiGeometry с точкой-центроидом.
//
// Google Earth подписывает полигон только при наличии точки, поэтому
// в каждую геометрию добавляется невидимая точка в центре. Уже
// сконвертированные placemark пропускаются.
func (d *Document) AddLabelPoints() {
	d.ensureNoIconStyle()

	for _, pm := range d.placemarks() {
		if pm.find("MultiGeometry") != nil {
			continue
		}

		polygon := pm.find("Polygon")
		coords := polygon.find("coordinates")
		if coords == nil {
			continue
		}
		centroid, err := ringCentroid(coords.Text)
		if err != nil {
			continue
		}

		// Переносим полигон под MultiGeometry и добавляем точку
		var parent *xmlNode
		pm.walk(func(n *xmlNode) {
			for _, c := range n.Children {
				if c == polygon {
					parent = n
				}
			}
		})
		if parent == nil {
			continue
		}
		parent.removeChild(polygon)

		point := newKMLNode("Point", "")
		point.Children = append(point.Children, newKMLNode("coordinates", centroid))

		multi := newKMLNode("MultiGeometry", "")
		multi.Children = append(multi.Children, polygon, point)
		pm.Children = append(pm.Children, multi)

		styleURL := pm.child("styleUrl")
		if styleURL == nil {
			styleURL = pm.ensureChild("styleUrl")
		}
		styleURL.Text = "#" + noIconStyleID
	}
}

// ringCentroid считает центроид кольца координат как среднее точек.
// Формат coordinates: "lon,lat,alt lon,lat,alt ...".
func ringCentroid(raw string) (string, error) {
	var sumLon, sumLat float64
	var count int

	for _, token := range strings.Fields(raw) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			return "", fmt.Errorf("malformed coordinate %q", token)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return "", fmt.Errorf("malformed longitude %q: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return "", fmt.Errorf("malformed latitude %q: %w", parts[1], err)
		}
		sumLon += lon
		sumLat += lat
		count++
	}

	if count == 0 {
		return "", fmt.Errorf("empty coordinates")
	}

	lon := strconv.FormatFloat(sumLon/float64(count), 'f', -1, 64)
	lat := strconv.FormatFloat(sumLat/float64(count), 'f', -1, 64)
	return lon + "," + lat + ",0", nil
}

// SetBorderColor задает общий стиль границы для всех полигонов,
// имя которых содержит латинскую букву (остальные сохраняют свой стиль).
//
// Цвет принимается в HTML-формате #rrggbb и переводится в формат KML
// aabbggrr с непрозрачным альфа-каналом. Заливка отключается, чтобы
// полигоны оставались прозрачными.
func (d *Document) SetBorderColor(htmlColor string) {
	doc := d.document()

	style := findStyle(doc, sharedPolygonStyleID)
	if style == nil {
		style = newKMLNode("Style", "")
		style.setAttr("id", sharedPolygonStyleID)
		doc.Children = append([]*xmlNode{style}, doc.Children...)
	}

	lineStyle := style.ensureChild("LineStyle")
	lineStyle.ensureChild("color").Text = htmlColorToKML(htmlColor)
	lineStyle.ensureChild("width").Text = "2.5"

	polyStyle := style.ensureChild("PolyStyle")
	polyStyle.ensureChild("outline").Text = "1"
	polyStyle.ensureChild("fill").Text = "0"

	for _, pm := range d.placemarks() {
		if !containsLatinLetter(placemarkName(pm)) {
			continue
		}

		// Инлайновые стили убираем в пользу общего
		var inlineStyles []*xmlNode
		for _, c := range pm.Children {
			if c.is("Style") {
				inlineStyles = append(inlineStyles, c)
			}
		}
		for _, inline := range inlineStyles {
			pm.removeChild(inline)
		}

		pm.ensureChild("styleUrl").Text = "#" + sharedPolygonStyleID
	}
}

// htmlColorToKML переводит #rrggbb в KML-формат aabbggrr.
func htmlColorToKML(color string) string {
	color = strings.TrimPrefix(color, "#")
	if len(color) != 6 {
		return "ff0000ff" // красный по умолчанию при невалидном значении
	}
	r, g, b := color[0:2], color[2:4], color[4:6]
	return strings.ToLower("ff" + b + g + r)
}

func containsLatinLetter(s string) bool {
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
