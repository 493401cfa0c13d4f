// Copyright 2025 Pattreeya Tanisaro
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieval

// Result is the uniform envelope every retrieval query returns. Success
// with zero rows means the query ran and matched nothing; Success=false
// means the query itself failed. Callers must never have to guess which.
type Result struct {
	Success bool                     `json:"success"`
	Tool    string                   `json:"tool"`
	Count   int                      `json:"count"`
	Rows    []map[string]interface{} `json:"results,omitempty"`
	Detail  string                   `json:"detail,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func success(tool string, rows []map[string]interface{}, detail string) Result {
	if rows == nil {
		rows = make([]map[string]interface{}, 0)
	}
	return Result{
		Success: true,
		Tool:    tool,
		Count:   len(rows),
		Rows:    rows,
		Detail:  detail,
	}
}

func failure(tool string, err error) Result {
	return Result{
		Success: false,
		Tool:    tool,
		Error:   err.Error(),
	}
}
