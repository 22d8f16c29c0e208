package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var badPaths = []string{
	".env", "php", "mysql", "cgi-bin", "index.jsp", "wp-login.php",
	"wp-admin", "xmlrpc.php", "config.php", "passwd", "shadow", "backup",
	"bin/bash", "bin/sh", "cmd.exe", "powershell", "shell", "exec",
	"actuator", "geoserver", "goform", "luci", "manager/html", "web-console",
	"favicon.ico", "login.do", "tomcat", "ftp", "tftp", "smb", "rpcbind",
}

// BlockBadActorsMiddleware short-circuits the scanner noise that hits any
// internet-facing server.
func BlockBadActorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := c.Request.URL.Path

		for _, path := range badPaths {
			if strings.Contains(requestPath, path) {
				c.JSON(403, gin.H{"error": "Forbidden"})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
