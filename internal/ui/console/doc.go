// Package console renders workflow progress and tables for the gcectl CLI
// and asks confirmations on the terminal.
package console
