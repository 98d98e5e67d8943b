package version

// Botのバージョン番号
const Version = "1.0.0"

// ReleaseNotes info に表示する変更点
var ReleaseNotes = []string{
	"Bookmarks can be stored in a JSON file, PostgreSQL or Redis.",
	"Maps are rendered in memory and attached directly to the reply.",
	"Slash commands suggest city names while typing.",
}
