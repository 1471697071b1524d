package utils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetDownloadURL turns a served path into an absolute URL on the host that
// received the request.
func GetDownloadURL(c *fiber.Ctx, filePath string) string {
	filePath = strings.TrimPrefix(filePath, "/")
	return fmt.Sprintf("%s://%s/%s", c.Protocol(), c.Hostname(), filePath)
}
