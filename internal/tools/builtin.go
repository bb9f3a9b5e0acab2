// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tools

// registerBuiltinTools registers the fixed tool catalog. The catalog
// order here is the order advertised to clients.
func registerBuiltinTools(r *Registry, o *ops) {
	r.RegisterTool(&Tool{
		Name:        "read_file",
		Description: "Read the content of a text file inside the sandbox",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"filepath": map[string]interface{}{
					"type":        "string",
					"description": "Path to the file to read",
				},
			},
			"required": []interface{}{"filepath"},
		},
		Validate: RequireStringArg("filepath", "filepath is required"),
		Executor: o.readFile,
	})

	r.RegisterTool(&Tool{
		Name:        "write_file",
		Description: "Write content to a file inside the sandbox, creating parent directories as needed and overwriting existing content",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"filepath": map[string]interface{}{
					"type":        "string",
					"description": "Path to the file to write",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content to write as UTF-8 text",
				},
			},
			"required": []interface{}{"filepath", "content"},
		},
		Validate: ChainValidation(
			RequireStringArg("filepath", "filepath is required"),
			RequirePresentArg("content", "content is required"),
		),
		Executor: o.writeFile,
	})

	r.RegisterTool(&Tool{
		Name:        "list_directory",
		Description: "List the entries of a directory inside the sandbox, tagging each as file or directory",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"dirpath": map[string]interface{}{
					"type":        "string",
					"description": "Path to the directory to list",
				},
			},
			"required": []interface{}{"dirpath"},
		},
		Validate: RequireStringArg("dirpath", "dirpath is required"),
		Executor: o.listDirectory,
	})

	r.RegisterTool(&Tool{
		Name:        "get_system_info",
		Description: "Report platform, OS release, hostname, uptime, memory, CPU count and standard directories of the host",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Executor: o.systemInfo,
	})

	r.RegisterTool(&Tool{
		Name:        "create_sample_file",
		Description: "Create a small timestamped sample file in the working directory",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Target filename (default: " + defaultSampleFilename + ")",
				},
			},
		},
		Executor: o.createSampleFile,
	})

	r.RegisterTool(&Tool{
		Name:        "get_allowed_paths",
		Description: "Show the directories and file extensions the sandbox permits",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Executor: o.allowedPaths,
	})
}
