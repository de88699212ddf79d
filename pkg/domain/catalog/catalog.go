// Package catalog holds the static table of file types that can be searched for,
// and the subset of them that commonly carry malware.
package catalog

import (
	"strings"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

var fileTypes = []model.ExtensionEntry{
	{Label: "Adobe Flash", Extensions: []string{"swf"}},
	{Label: "Adobe Portable Document Format", Extensions: []string{"pdf"}},
	{Label: "Adobe PostScript", Extensions: []string{"ps"}},
	{Label: "Autodesk Design Web Format", Extensions: []string{"dwf"}},
	{Label: "Google Earth", Extensions: []string{"kml", "kmz"}},
	{Label: "GPS eXchange Format", Extensions: []string{"gpx"}},
	{Label: "Hancom Hanword", Extensions: []string{"hwp"}},
	{Label: "HTML", Extensions: []string{"htm", "html"}},
	{Label: "Microsoft Excel", Extensions: []string{"xls", "xlsx"}},
	{Label: "Microsoft PowerPoint", Extensions: []string{"ppt", "pptx"}},
	{Label: "Microsoft Word", Extensions: []string{"doc", "docx"}},
	{Label: "OpenOffice presentation", Extensions: []string{"odp"}},
	{Label: "OpenOffice spreadsheet", Extensions: []string{"ods"}},
	{Label: "OpenOffice text", Extensions: []string{"odt"}},
	{Label: "Rich Text Format", Extensions: []string{"rtf"}},
	{Label: "Scalable Vector Graphics", Extensions: []string{"svg"}},
	{Label: "TeX/LaTeX", Extensions: []string{"tex"}},
	{Label: "Text", Extensions: []string{"txt", "text"}},
	{Label: "Basic source code", Extensions: []string{"bas"}},
	{Label: "C/C++ source code", Extensions: []string{"c", "cc", "cpp", "cxx", "h", "hpp"}},
	{Label: "C# source code", Extensions: []string{"cs"}},
	{Label: "Java source code", Extensions: []string{"java"}},
	{Label: "Perl source code", Extensions: []string{"pl"}},
	{Label: "Python source code", Extensions: []string{"py"}},
	{Label: "Wireless Markup Language", Extensions: []string{"wml", "wap"}},
	{Label: "XML", Extensions: []string{"xml"}},
}

var threatTypes = []model.ExtensionEntry{
	{Label: "Executable", Extensions: []string{"exe", "com", "msi"}, Threat: true},
	{Label: "Screensaver", Extensions: []string{"scr"}, Threat: true},
	{Label: "Batch file", Extensions: []string{"bat", "cmd"}, Threat: true},
	{Label: "Windows script", Extensions: []string{"js", "jse", "vbs", "vbe", "wsf", "ps1"}, Threat: true},
	{Label: "HTML application", Extensions: []string{"hta"}, Threat: true},
	{Label: "Java archive", Extensions: []string{"jar"}, Threat: true},
	{Label: "Dynamic link library", Extensions: []string{"dll"}, Threat: true},
	{Label: "Control panel item", Extensions: []string{"cpl"}, Threat: true},
	{Label: "Shortcut", Extensions: []string{"lnk"}, Threat: true},
	{Label: "Registry file", Extensions: []string{"reg"}, Threat: true},
	{Label: "Office macro document", Extensions: []string{"docm", "xlsm", "pptm"}, Threat: true},
}

// All returns every known file type in display order
func All() []model.ExtensionEntry {
	return cloneEntries(fileTypes)
}

// Threats returns the file types flagged as common malware carriers
func Threats() []model.ExtensionEntry {
	return cloneEntries(threatTypes)
}

// IsThreat reports whether ext belongs to any threat group
func IsThreat(ext string) bool {
	ext = normalize(ext)
	for _, entry := range threatTypes {
		if entry.Has(ext) {
			return true
		}
	}
	return false
}

// Lookup finds the entry owning ext, searching threat groups first
func Lookup(ext string) (model.ExtensionEntry, bool) {
	ext = normalize(ext)
	for _, table := range [][]model.ExtensionEntry{threatTypes, fileTypes} {
		for _, entry := range table {
			if entry.Has(ext) {
				return cloneEntry(entry), true
			}
		}
	}
	return model.ExtensionEntry{}, false
}

func normalize(ext string) string {
	return strings.TrimPrefix(ext, ".")
}

func cloneEntries(src []model.ExtensionEntry) []model.ExtensionEntry {
	dst := make([]model.ExtensionEntry, len(src))
	for i, e := range src {
		dst[i] = cloneEntry(e)
	}
	return dst
}

func cloneEntry(e model.ExtensionEntry) model.ExtensionEntry {
	e.Extensions = append([]string(nil), e.Extensions...)
	return e
}
