package output

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"
)

func init() {
	Register("json", writeJSON)
	Register("yaml", writeYAML)
}

func writeJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep.Annotation)
}

func writeYAML(w io.Writer, rep *Report) error {
	b, err := yaml.Marshal(rep.Annotation)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
