// Copyright (c) 2023 EMBL-European Bioinformatics Institute
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package converter

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ebi-ait/ingest-archiver/dsp"
)

// the separator replacing delimiters in renamed attributes
const displaySeparator = " - "

// options controlling how attribute names are made human-readable
type RenameOptions struct {
	// remove everything up to and including the first delimiter
	StripPrefix bool
	// lowercase the name instead of title-casing it
	Lowercase bool
}

// Renames an attribute, e.g. "content__biomaterial_core__biomaterial_name"
// becomes "Biomaterial Core - Biomaterial Name" when the prefix is stripped.
// Names without the delimiter are returned unchanged.
func RenameAttribute(name, delimiter string, options RenameOptions) string {
	if !strings.Contains(name, delimiter) {
		return name
	}
	if options.StripPrefix {
		_, name, _ = strings.Cut(name, delimiter)
	}
	name = strings.ReplaceAll(name, delimiter, displaySeparator)
	name = strings.ReplaceAll(name, "_", " ")
	if options.Lowercase {
		return strings.ToLower(name)
	}
	return cases.Title(language.English).String(name)
}

// returns a copy of the attributes with every name renamed; the values of
// names that collide after renaming are concatenated
func RenameAttributes(attributes dsp.Attributes, delimiter string, options RenameOptions) dsp.Attributes {
	renamed := make(dsp.Attributes, len(attributes))
	for _, name := range slices.Sorted(maps.Keys(attributes)) {
		newName := RenameAttribute(name, delimiter, options)
		renamed[newName] = append(renamed[newName], attributes[name]...)
	}
	return renamed
}
