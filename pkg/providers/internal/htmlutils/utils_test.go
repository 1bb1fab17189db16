package htmlutils

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestWalkNodesPreOrder(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head><meta property="a"></head><body><div><meta property="b"></div><p><meta property="c"></p></body></html>`))
	assert.NoError(t, err)

	visited := []string{}
	WalkNodesPreOrder(doc, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.Data == "meta" {
			visited = append(visited, GetNodeAttr(node, "property"))
		}
		// Skip everything under <div>.
		return !(node.Type == html.ElementNode && node.Data == "div")
	})

	assert.Equal(t, []string{"a", "c"}, visited)
}

func TestFindMetaProperty(t *testing.T) {
	htmlSource := heredoc.Doc(`
		<html>
		<head>
			<meta name="og:image" content="https://example.com/wrong.jpg">
			<meta property="og:title" content="A title">
			<meta property="og:image" content="https://i.imgur.com/first.jpg">
			<meta property="og:image" content="https://i.imgur.com/second.jpg">
		</head>
		<body></body>
		</html>
	`)

	doc, err := html.Parse(strings.NewReader(htmlSource))
	assert.NoError(t, err)

	node := FindMetaProperty(doc, "og:image")
	if assert.NotNil(t, node) {
		assert.Equal(t, "https://i.imgur.com/first.jpg", GetNodeAttr(node, "content"))
	}

	assert.Nil(t, FindMetaProperty(doc, "og:video"))
}

func TestLookupNodeAttr(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader(`<meta property="og:image" content="">`))
	node := FindNode(doc, "meta", nil)
	if !assert.NotNil(t, node) {
		return
	}

	value, ok := LookupNodeAttr(node, "content")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	_, ok = LookupNodeAttr(node, "name")
	assert.False(t, ok)
}
