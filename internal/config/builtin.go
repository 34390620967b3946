package config

// BuiltinCatalog returns the launcher catalog used when the config file does
// not define one.
func BuiltinCatalog() []CatalogEntry {
	return []CatalogEntry{
		{Title: "Terminal", Width: 640, Height: 400, Color: "green", Icon: ">"},
		{Title: "Notes", Width: 420, Height: 480, Color: "yellow", Icon: "N"},
		{Title: "File Browser", Width: 720, Height: 460, Color: "blue", Icon: "F"},
		{Title: "System Monitor", Width: 560, Height: 360, Color: "red", Icon: "M"},
		{Title: "Calculator", Width: 320, Height: 400, Color: "magenta", Icon: "="},
		{Title: "Clock", Width: 300, Height: 200, Color: "cyan", Icon: "C"},
		{Title: "Settings", Width: 600, Height: 440, Color: "white", Icon: "S"},
	}
}
