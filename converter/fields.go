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

// a rule copying the flattened key Source to the target field Target
type FieldMap struct {
	Source, Target string
}

// Copies the values of the mapped flattened keys into their target fields and
// reports which flattened keys were consumed. A mapped key absent from the
// record yields an empty string; no mapped value is validated or converted.
func MapFields(flattened *Flattened, fieldMapping []FieldMap) (map[string]any, map[string]bool) {
	extracted := make(map[string]any)
	consumed := make(map[string]bool)
	for _, field := range fieldMapping {
		if value, found := flattened.Get(field.Source); found {
			extracted[field.Target] = value
			consumed[field.Source] = true
		} else {
			extracted[field.Target] = ""
		}
	}
	return extracted, consumed
}
