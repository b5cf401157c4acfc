package layouts

import (
	"fmt"
	"html"
)

// DefaultName is the layout used when page metadata omits one and the
// configuration does not override the fallback.
const DefaultName = "default"

func init() {
	Register(DefaultName, defaultLayout)
}

// defaultLayout is the built-in minimal document shell. Real sites register
// their own layouts; this keeps a fresh project buildable.
func defaultLayout(data PageData) (string, error) {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="build" content="%s">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`, html.EscapeString(data.Fingerprint), html.EscapeString(data.Title("Untitled")), data.Body), nil
}
