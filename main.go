// Command sitestamp stamps a static site's sitemap lastmod fields and the
// datePublished/dateModified values of its index page with the current date.
package main

import (
	"github.com/JakeFAU/sitestamp/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
