package kml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Пространства имен KML 2.2
const (
	NamespaceKML = "http://www.opengis.net/kml/2.2"
	NamespaceGX  = "http://www.google.com/kml/ext/2.2"
)

// xmlNode универсальный узел XML-дерева.
// Документ хранится целиком, чтобы стили, папки и незатронутые placemark
// переживали перезапись без потерь. Комментарии сохраняются по содержимому,
// но пишутся в начале элемента: позиция среди потомков не запоминается.
// Processing instructions, кроме XML-декларации, не переживают перезапись.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Comment  string     `xml:",comment"`
	Children []*xmlNode `xml:",any"`
}

// local сравнивает локальное имя узла без учета пространства имен.
func (n *xmlNode) is(local string) bool {
	return n.XMLName.Local == local
}

// child возвращает первого прямого потомка с данным локальным именем.
func (n *xmlNode) child(local string) *xmlNode {
	for _, c := range n.Children {
		if c.is(local) {
			return c
		}
	}
	return nil
}

// find возвращает первый узел с данным локальным именем в любом поддереве.
func (n *xmlNode) find(local string) *xmlNode {
	if n.is(local) {
		return n
	}
	for _, c := range n.Children {
		if found := c.find(local); found != nil {
			return found
		}
	}
	return nil
}

// walk обходит поддерево в порядке документа.
func (n *xmlNode) walk(visit func(*xmlNode)) {
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}

// removeChild удаляет прямого потомка.
func (n *xmlNode) removeChild(target *xmlNode) {
	for i, c := range n.Children {
		if c == target {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ensureChild возвращает прямого потомка с данным именем, создавая его
// в пространстве имен KML при отсутствии.
func (n *xmlNode) ensureChild(local string) *xmlNode {
	if c := n.child(local); c != nil {
		return c
	}
	c := newKMLNode(local, "")
	n.Children = append(n.Children, c)
	return c
}

// attr возвращает значение атрибута по локальному имени.
func (n *xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// setAttr выставляет атрибут, заменяя существующий.
func (n *xmlNode) setAttr(local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// newKMLNode создает узел в пространстве имен KML 2.2.
func newKMLNode(local, text string) *xmlNode {
	return &xmlNode{
		XMLName: xml.Name{Space: NamespaceKML, Local: local},
		Text:    text,
	}
}

// serialize записывает дерево обратно в XML.
//
// encoding/xml при маршалинге размножает xmlns-декларации по всем элементам,
// поэтому запись выполняется вручную: префиксы берутся из xmlns-атрибутов
// корня, имена в основном пространстве пишутся без префикса.
func serialize(root *xmlNode) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	prefixes := map[string]string{} // URL -> префикс ("" для основного)
	for _, a := range root.Attrs {
		switch {
		case a.Name.Local == "xmlns" && a.Name.Space == "":
			prefixes[a.Value] = ""
		case a.Name.Space == "xmlns":
			prefixes[a.Value] = a.Name.Local
		}
	}
	if _, ok := prefixes[NamespaceKML]; !ok {
		prefixes[NamespaceKML] = ""
	}

	writeNode(&buf, root, prefixes, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *xmlNode, prefixes map[string]string, depth int) {
	indent := strings.Repeat("  ", depth)
	name := qualifiedName(n.XMLName, prefixes)

	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attrName(a.Name))
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}

	text := strings.TrimSpace(n.Text)
	comment := strings.TrimSpace(n.Comment)
	if text == "" && comment == "" && len(n.Children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')

	if text != "" {
		// Разметка в описаниях сохраняется через CDATA, как пишет Google Earth
		if strings.ContainsAny(text, "<&") {
			buf.WriteString("<![CDATA[")
			buf.WriteString(text)
			buf.WriteString("]]>")
		} else {
			_ = xml.EscapeText(buf, []byte(text))
		}
	}

	if comment != "" || len(n.Children) > 0 {
		buf.WriteByte('\n')
		if comment != "" {
			buf.WriteString(strings.Repeat("  ", depth+1))
			buf.WriteString("<!--")
			buf.WriteString(n.Comment) // исходные пробелы внутри комментария
			buf.WriteString("-->\n")
		}
		for _, c := range n.Children {
			writeNode(buf, c, prefixes, depth+1)
		}
		buf.WriteString(indent)
	}

	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteString(">\n")
}

// qualifiedName возвращает имя элемента с префиксом его пространства имен.
func qualifiedName(name xml.Name, prefixes map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	prefix, ok := prefixes[name.Space]
	if !ok || prefix == "" {
		return name.Local
	}
	return prefix + ":" + name.Local
}

// attrName восстанавливает исходное написание имени атрибута.
func attrName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if name.Space == "xmlns" {
		return "xmlns:" + name.Local
	}
	return name.Local
}

// parseTree разбирает XML-документ в дерево узлов.
func parseTree(data []byte) (*xmlNode, error) {
	root := &xmlNode{}
	if err := xml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("failed to parse KML: %w", err)
	}
	return root, nil
}
