// Package prompt provides simple interactive prompts.
//
// Every prompt renders to stderr so stdout stays free for primary output
// such as a selected path.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [Choice]: a row of buttons, e.g. Remove / Force Remove / Cancel
//   - [TextInput]: Single-line text input
//   - [Select]: Single selection from a fuzzy-filtered list
//   - [MultiSelect]: Several selections from a fuzzy-filtered list
package prompt
