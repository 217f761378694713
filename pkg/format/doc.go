// Package format renders sizes and transfer-time estimates for display.
package format
