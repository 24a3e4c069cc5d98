package server

import (
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>fibre</title>
</head>
<body>
<div id="{{.MountID}}"></div>
<script>
{{.Client}}
</script>
</body>
</html>
`))

// thinClient decodes frames from /ws and applies the operations to the page.
const thinClient = `(function () {
  var FRAME_OPS = 1, FRAME_DONE = 2, FRAME_ERROR = 3;
  var mount = document.getElementById(MOUNT_ID);
  var nodes = { 0: mount };
  var text = new TextDecoder();

  function Reader(buf) { this.b = new Uint8Array(buf); this.p = 0; }
  Reader.prototype.byte = function () { return this.b[this.p++]; };
  Reader.prototype.uvarint = function () {
    var v = 0, mul = 1, b;
    do { b = this.byte(); v += (b & 0x7f) * mul; mul *= 128; } while (b & 0x80);
    return v;
  };
  Reader.prototype.svarint = function () {
    var u = this.uvarint();
    return u % 2 ? -(u + 1) / 2 : u / 2;
  };
  Reader.prototype.string = function () {
    var n = this.uvarint(), s = text.decode(this.b.subarray(this.p, this.p + n));
    this.p += n;
    return s;
  };
  Reader.prototype.value = function () {
    switch (this.byte()) {
      case 1: return this.string();
      case 2: return this.byte() !== 0;
      case 3: return this.svarint();
    }
    throw new Error("unknown value tag");
  };

  function setProperty(node, name, value) {
    if (node.nodeType === 3) { node.nodeValue = value; return; }
    if (value === false) { node.removeAttribute(name); return; }
    node.setAttribute(name, value === true ? "" : String(value));
  }

  function applyOps(r) {
    var count = r.uvarint();
    for (var i = 0; i < count; i++) {
      switch (r.byte()) {
        case 1: var id = r.uvarint(); nodes[id] = document.createElement(r.string()); break;
        case 2: nodes[r.uvarint()] = document.createTextNode(""); break;
        case 3: var node = nodes[r.uvarint()], name = r.string(); setProperty(node, name, r.value()); break;
        case 4: var parent = nodes[r.uvarint()]; parent.appendChild(nodes[r.uvarint()]); break;
        default: throw new Error("unknown op");
      }
    }
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.binaryType = "arraybuffer";
  ws.onmessage = function (ev) {
    var r = new Reader(ev.data);
    var type = r.byte();
    r.p += 4;
    if (type === FRAME_OPS) { applyOps(r); return; }
    if (type === FRAME_DONE) { console.debug("fibre: render", r.uvarint(), "done"); return; }
    if (type === FRAME_ERROR) { var id = r.uvarint(); console.warn("fibre: render", id, r.string(), r.string()); }
  };
  window.fibre = { render: function (html) { ws.send(html); } };
})();`

type pageData struct {
	MountID string
	Client  template.JS
}

func (s *Server) servePage(w http.ResponseWriter, _ *http.Request) {
	client := "var MOUNT_ID = " + jsString(s.config.MountID) + ";\n" + thinClient
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, pageData{MountID: s.config.MountID, Client: template.JS(client)}); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	return `"` + template.JSEscapeString(s) + `"`
}
