package server

import (
	"bytes"

	"golang.org/x/net/html"
)

// reloadScript reconnects forever so a restarted dev session picks existing
// tabs back up.
const reloadScript = `(function () {
  function connect() {
    var ws = new WebSocket('ws://' + location.host + '/__lume/ws');
    ws.onmessage = function (ev) {
      if (ev.data === 'reload') location.reload();
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();`

// PatchDocument rewrites an HTML document with the configured page title and,
// when liveReload is set, the websocket reload script appended to the body.
func PatchDocument(content []byte, title string, liveReload bool) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var head, body, titleNode *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head":
				head = n
			case "body":
				body = n
			case "title":
				titleNode = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		if titleNode != nil {
			for c := titleNode.FirstChild; c != nil; {
				next := c.NextSibling
				titleNode.RemoveChild(c)
				c = next
			}
			titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		} else if head != nil {
			titleNode = &html.Node{Type: html.ElementNode, Data: "title"}
			titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
			head.AppendChild(titleNode)
		}
	}

	if liveReload && body != nil {
		script := &html.Node{Type: html.ElementNode, Data: "script"}
		script.AppendChild(&html.Node{Type: html.TextNode, Data: reloadScript})
		body.AppendChild(script)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
