// Package play renders games as text and runs the interactive terminal loop.
package play
