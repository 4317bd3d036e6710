// Package validate holds the input checks shared by interactive flows.
package validate
