// package ui defines terminal styling for monitor and history output
package ui
