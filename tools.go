//go:build tools
// +build tools

// Package tools fija en go.mod las herramientas que el proyecto necesita
// pero que el código de la aplicación no importa directamente.
package tools

import (
	// swag genera docs/swagger.json a partir de las anotaciones godoc
	// de los handlers (lo sirve gofiber/contrib/swagger).
	_ "github.com/swaggo/swag"
)
