package file

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Controller serves stored artifacts (snapshots, exports, badges) from the
// statics directory. Admin only; the router wires the auth.
type Controller struct {
	basePath string
}

func NewController(basePath string) *Controller {
	return &Controller{basePath: basePath}
}

func (cf Controller) File(c *gin.Context) {
	file := c.Param("filepath")

	// No path traversal out of the statics dir.
	clean := filepath.Clean(file)
	if strings.Contains(clean, "..") {
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid path",
			"status": false,
		})
		return
	}

	fs := gin.Dir(cf.basePath, false)
	f, err := fs.Open(clean)
	if err != nil {
		c.JSON(http.StatusNotFound, map[string]interface{}{
			"error":  "file not found",
			"status": false,
		})
		return
	}
	f.Close()

	http.ServeFile(c.Writer, c.Request, filepath.Join(cf.basePath, clean))
}
