// Package scripts contains scene script components.
// Scripts are written in assets/scripts/ and copied here by gen-scripts,
// which appends their field declarations and the Register function.
package scripts
