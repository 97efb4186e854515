package export

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/coronalert/internal/model"
)

// YAML writes records as a YAML sequence of rows.
func YAML(w io.Writer, records []model.LocationRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Rows(records)); err != nil {
		return eris.Wrap(err, "yaml: encode rows")
	}
	return eris.Wrap(enc.Close(), "yaml: close encoder")
}
