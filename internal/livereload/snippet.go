package livereload

import "bytes"

// Snippet is the script block injected into served pages. Stylesheet-only
// rebuilds swap <link> hrefs in place; anything else reloads the page.
const Snippet = `<script src="/socket.io/socket.io.min.js"></script>
<script>
(function () {
  var socket = io({ transports: ["websocket", "polling"] });
  socket.on("reload", function (event) {
    var data = (event && event.data) || {};
    if (data.css_only) {
      document.querySelectorAll('link[rel="stylesheet"]').forEach(function (link) {
        var url = new URL(link.href);
        url.searchParams.set("livereload", Date.now());
        link.href = url.toString();
      });
      return;
    }
    window.location.reload();
  });
  socket.on("build-error", function (event) {
    var data = (event && event.data) || {};
    console.error("[assetgrid] " + data.task + ": " + data.error);
  });
})();
</script>
`

var closingBody = []byte("</body>")

// Inject inserts Snippet before the last closing body tag, or appends it
// when the page has none.
func Inject(page []byte) []byte {
	i := lastIndexFold(page, closingBody)
	if i < 0 {
		out := make([]byte, 0, len(page)+len(Snippet))
		return append(append(out, page...), Snippet...)
	}
	out := make([]byte, 0, len(page)+len(Snippet))
	out = append(out, page[:i]...)
	out = append(out, Snippet...)
	return append(out, page[i:]...)
}

func lastIndexFold(s, sep []byte) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if bytes.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
