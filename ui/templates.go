package ui

import _ "embed"

//go:embed templates/index.html
var indexHTML string
