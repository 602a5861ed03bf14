package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "users":
		handleUsers(args)
	case "employees":
		handleEmployees(args)
	case "departments":
		handleDepartments(args)
	case "jobs":
		handleJobs(args)
	case "history":
		handleHistory(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin auth <signup|signin|signout|who>")
		return
	}

	switch args[0] {
	case "signup":
		signUp(args[1:])
	case "signin":
		signIn(args[1:])
	case "signout":
		signOut()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleUsers(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin users <list|set-role>")
		return
	}

	switch args[0] {
	case "list":
		listUsers()
	case "set-role":
		setRole(args[1:])
	default:
		fmt.Printf("unknown users command: %s\n", args[0])
	}
}

func handleEmployees(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin employees <list|get|next-empno|delete|history>")
		return
	}

	switch args[0] {
	case "list":
		listEmployees(args[1:])
	case "get":
		getEmployee(args[1:])
	case "next-empno":
		nextEmpno()
	case "delete":
		deleteEmployee(args[1:])
	case "history":
		employeeHistory(args[1:])
	default:
		fmt.Printf("unknown employees command: %s\n", args[0])
	}
}

func handleDepartments(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin departments <list|history>")
		return
	}

	switch args[0] {
	case "list":
		listDepartments()
	case "history":
		departmentHistory(args[1:])
	default:
		fmt.Printf("unknown departments command: %s\n", args[0])
	}
}

func handleJobs(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin jobs <list|history>")
		return
	}

	switch args[0] {
	case "list":
		listJobs()
	case "history":
		jobHistory(args[1:])
	default:
		fmt.Printf("unknown jobs command: %s\n", args[0])
	}
}

func handleHistory(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin history <delete>")
		return
	}

	switch args[0] {
	case "delete":
		deleteHistoryRow(args[1:])
	default:
		fmt.Printf("unknown history command: %s\n", args[0])
	}
}

// Auth commands
func signUp(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (min 8 characters)")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/signup", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Account created: %s (blocked until an administrator assigns a role)\n", *email)
		if token, ok := result["token"].(string); ok {
			saveToken(token)
		}
	} else {
		fmt.Printf("✗ Sign-up failed: %v\n", result)
	}
}

func signIn(args []string) {
	fs := flag.NewFlagSet("signin", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/signin", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Signed in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Sign-in failed: %v\n", result)
	}
}

func signOut() {
	req, _ := http.NewRequest("POST", getAPIURL()+"/auth/signout", nil)
	addAuthHeader(req)
	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}
	os.Remove(tokenFile())
	fmt.Println("✓ Signed out")
}

func whoAmI() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/auth/me", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		fmt.Println("Not signed in")
		return
	}

	var me map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&me)
	fmt.Printf("✓ Signed in as %v (role: %v)\n", me["email"], me["role"])
}

// User management commands
func listUsers() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/users", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var users []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&users)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%v\t%v\t%v\n", u["id"], u["email"], u["role"])
	}
	w.Flush()
}

func setRole(args []string) {
	fs := flag.NewFlagSet("set-role", flag.ExitOnError)
	id := fs.String("id", "", "target user id")
	role := fs.String("role", "", "new role (admin, user, blocked)")

	fs.Parse(args)

	if *id == "" || *role == "" {
		fmt.Println("Error: id and role are required")
		fs.PrintDefaults()
		return
	}

	data, _ := json.Marshal(map[string]string{"role": *role})
	req, _ := http.NewRequest("PUT", getAPIURL()+"/users/"+*id+"/role", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		fmt.Printf("✓ Role set to %s for %s\n", *role, *id)
	} else {
		printAPIError(resp)
	}
}

// Employee commands
func listEmployees(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "name or employee number filter")
	fs.Parse(args)

	url := getAPIURL() + "/employees"
	if *query != "" {
		url += "?q=" + *query
	}

	req, _ := http.NewRequest("GET", url, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var employees []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&employees)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPNO\tNAME\tHIRED\tSEPARATED")
	for _, e := range employees {
		fmt.Fprintf(w, "%v\t%v %v\t%v\t%v\n", e["empno"], e["firstname"], e["lastname"], e["hiredate"], e["sepdate"])
	}
	w.Flush()
}

func getEmployee(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin employees get <empno>")
		return
	}

	req, _ := http.NewRequest("GET", getAPIURL()+"/employees/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var e map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&e)
	out, _ := json.MarshalIndent(e, "", "  ")
	fmt.Println(string(out))
}

func nextEmpno() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/employees/next-empno", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var result map[string]string
	json.NewDecoder(resp.Body).Decode(&result)
	fmt.Println(result["empno"])
}

func deleteEmployee(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin employees delete <empno>")
		return
	}

	req, _ := http.NewRequest("DELETE", getAPIURL()+"/employees/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 204 {
		fmt.Printf("✓ Employee %s deleted (with job history)\n", args[0])
	} else {
		printAPIError(resp)
	}
}

func employeeHistory(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hradmin employees history <empno>")
		return
	}
	printHistory(getAPIURL() + "/employees/" + args[0] + "/history")
}

// Department commands
func listDepartments() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/departments", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var departments []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&departments)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME")
	for _, d := range departments {
		fmt.Fprintf(w, "%v\t%v\n", d["deptcode"], d["deptname"])
	}
	w.Flush()
}

func departmentHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	policy := fs.String("policy", "", "list policy: all or latest")
	if len(args) < 1 {
		fmt.Println("Usage: hradmin departments history <deptcode> [-policy latest]")
		return
	}
	fs.Parse(args[1:])

	url := getAPIURL() + "/departments/" + args[0] + "/history"
	if *policy != "" {
		url += "?policy=" + *policy
	}
	printHistory(url)
}

// Job commands
func listJobs() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/jobs", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var jobs []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&jobs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDESCRIPTION")
	for _, j := range jobs {
		fmt.Fprintf(w, "%v\t%v\n", j["jobcode"], j["jobdesc"])
	}
	w.Flush()
}

func jobHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	policy := fs.String("policy", "", "list policy: all or latest")
	if len(args) < 1 {
		fmt.Println("Usage: hradmin jobs history <jobcode> [-policy latest]")
		return
	}
	fs.Parse(args[1:])

	url := getAPIURL() + "/jobs/" + args[0] + "/history"
	if *policy != "" {
		url += "?policy=" + *policy
	}
	printHistory(url)
}

// History commands
func deleteHistoryRow(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	empno := fs.String("empno", "", "employee number")
	effdate := fs.String("effdate", "", "effective date (YYYY-MM-DD)")
	jobcode := fs.String("jobcode", "", "job code")

	fs.Parse(args)

	if *empno == "" || *effdate == "" || *jobcode == "" {
		fmt.Println("Error: empno, effdate, and jobcode are required")
		fs.PrintDefaults()
		return
	}

	data, _ := json.Marshal(map[string]string{
		"empno":   *empno,
		"effdate": *effdate,
		"jobcode": *jobcode,
	})
	req, _ := http.NewRequest("DELETE", getAPIURL()+"/history", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 204 {
		fmt.Println("✓ History row deleted")
	} else {
		printAPIError(resp)
	}
}

// Helper functions
func printHistory(url string) {
	req, _ := http.NewRequest("GET", url, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var rows []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&rows)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPNO\tEMPLOYEE\tEFFDATE\tJOB\tDEPT\tSALARY")
	for _, r := range rows {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n",
			r["empno"], r["employee_name"], r["effdate"], r["jobdesc"], r["deptname"], r["salary_display"])
	}
	w.Flush()
}

func printAPIError(resp *http.Response) {
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	fmt.Printf("✗ Request failed (%d): %v\n", resp.StatusCode, result["error"])
}

func getAPIURL() string {
	if url := os.Getenv("HRADMIN_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.hradmin/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.hradmin", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`HR Admin CLI

Usage:
  hradmin <command> [options]

Commands:
  auth         Session management (signup, signin, signout, who)
  users        User role management (list, set-role) - admin access required
  employees    Employee records (list, get, next-empno, delete, history)
  departments  Department reference table (list, history)
  jobs         Job reference table (list, history)
  history      Job history rows (delete)
  help         Show this help message

Environment Variables:
  HRADMIN_API    API endpoint (default: http://localhost:8080/api)

Examples:
  hradmin auth signin -email admin@example.com -password secret123
  hradmin employees list -q smith
  hradmin departments history SALES -policy latest
  hradmin users set-role -id 7f3a... -role user
`)
}
