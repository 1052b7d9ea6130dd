package taxonomy

import "resume-parser-go/internal/types"

// defaultData returns the embedded vocabulary tables. Declaration order of
// the entries is part of the contract: it drives deterministic tie-breaking
// in header detection and chunk classification.
func defaultData() Data {
	return Data{
		Sections: []SectionEntry{
			{
				Key: types.CategoryExperience,
				Synonyms: []string{
					"experience", "work experience", "professional experience",
					"employment", "employment history", "work history",
					"career history", "professional history", "work background",
					"professional background", "career background",
					"professional summary", "career summary", "work summary",
					"professional achievements", "career achievements",
					"positions held", "professional roles", "career highlights",
					"employment record", "work record", "professional record",
				},
				Exemplars: []string{
					"Senior Software Engineer at TechCorp Inc from 2020 to 2023",
					"Led a team of five developers building web applications",
					"Developed and maintained backend services in production",
					"Managed cross-functional projects and delivered on schedule",
					"Promoted to engineering manager after two years",
					"Responsible for designing and operating distributed systems",
					"Collaborated with product managers on the roadmap",
					"Implemented CI/CD pipelines that cut release time in half",
				},
			},
			{
				Key: types.CategoryEducation,
				Synonyms: []string{
					"education", "educational background", "academic background",
					"academic qualifications", "educational qualifications",
					"qualifications", "academic history", "educational history",
					"academic record", "academic credentials",
					"educational credentials", "academic achievements",
					"educational achievements", "degrees", "academic degrees",
					"schooling", "academic training", "formal education",
				},
				Exemplars: []string{
					"Bachelor of Science in Computer Science",
					"Master of Science in Data Science from MIT, 2019",
					"PhD in Electrical Engineering, Stanford University",
					"Graduated with honors, GPA 3.8 out of 4.0",
					"Completed coursework in algorithms and machine learning",
					"Attended State University from 2014 to 2018",
				},
			},
			{
				Key: types.CategorySkills,
				Synonyms: []string{
					"skills", "technical skills", "professional skills",
					"core skills", "key skills", "relevant skills",
					"core competencies", "competencies", "technical competencies",
					"professional competencies", "expertise",
					"technical expertise", "areas of expertise", "proficiencies",
					"technical proficiencies", "abilities", "technical abilities",
					"capabilities", "technical capabilities",
					"technical knowledge", "specializations",
					"programming skills", "software skills", "technology skills",
				},
				Exemplars: []string{
					"Programming languages: Python, Java, Go, TypeScript",
					"Frameworks: React, Django, Spring Boot, Flask",
					"Databases: PostgreSQL, MySQL, MongoDB, Redis",
					"Cloud platforms: AWS, Azure, Google Cloud Platform",
					"Proficient in Docker, Kubernetes and Terraform",
				},
			},
			{
				Key: types.CategoryProjects,
				Synonyms: []string{
					"projects", "personal projects", "professional projects",
					"academic projects", "key projects", "notable projects",
					"selected projects", "relevant projects", "major projects",
					"portfolio", "work samples", "project experience",
					"development projects", "software projects",
					"technical projects", "research projects", "case studies",
				},
				Exemplars: []string{
					"Built an e-commerce platform using React and Django",
					"Open source contribution to a distributed cache project",
					"Created a recommendation system with collaborative filtering",
					"Developed a mobile app published on the App Store",
					"Hackathon project that won first place",
				},
			},
			{
				Key: types.CategoryCertifications,
				Synonyms: []string{
					"certifications", "certificates", "professional certifications",
					"technical certifications", "industry certifications",
					"credentials", "professional credentials", "licenses",
					"professional licenses", "accreditations",
					"professional qualifications", "awards", "honors",
					"professional recognition",
				},
				Exemplars: []string{
					"AWS Certified Solutions Architect - Associate",
					"Certified Kubernetes Administrator, CNCF",
					"Google Cloud Professional Data Engineer certification",
					"PMP certified project management professional",
				},
			},
		},
		Skills: []SkillEntry{
			{
				Key: "programming_languages",
				Keywords: []string{
					"python", "java", "javascript", "typescript", "c++", "c#",
					"c", "go", "golang", "rust", "ruby", "php", "swift",
					"kotlin", "scala", "r", "matlab", "perl", "shell", "bash",
					"powershell", "objective-c", "dart", "lua", "haskell",
					"clojure", "sql",
				},
			},
			{
				Key: "web_technologies",
				Keywords: []string{
					"html", "css", "html5", "css3", "sass", "scss", "less",
					"bootstrap", "tailwind", "react", "angular", "vue",
					"vue.js", "react.js", "angular.js", "jquery", "node.js",
					"express", "express.js", "next.js", "nuxt.js", "gatsby",
					"svelte", "ember", "backbone", "graphql", "rest",
				},
			},
			{
				Key: "frameworks_libraries",
				Keywords: []string{
					"django", "flask", "fastapi", "spring", "spring boot",
					"laravel", "symfony", "codeigniter", "rails",
					"ruby on rails", "asp.net", ".net", "dotnet", "tensorflow",
					"pytorch", "keras", "scikit-learn", "pandas", "numpy",
					"opencv", "gin", "echo",
				},
			},
			{
				Key: "machine_learning",
				Keywords: []string{
					"machine learning", "deep learning", "reinforcement learning",
					"natural language processing", "nlp", "computer vision",
					"neural networks", "transformers", "llm",
					"recommendation systems", "mlops",
				},
			},
			{
				Key: "databases",
				Keywords: []string{
					"mysql", "postgresql", "sqlite", "mongodb", "redis",
					"elasticsearch", "oracle", "sql server", "cassandra",
					"dynamodb", "neo4j", "couchdb", "influxdb", "mariadb",
					"qdrant",
				},
			},
			{
				Key: "cloud_platforms",
				Keywords: []string{
					"aws", "amazon web services", "azure", "microsoft azure",
					"gcp", "google cloud", "google cloud platform", "heroku",
					"digitalocean", "linode", "vultr",
				},
			},
			{
				Key: "devops_tools",
				Keywords: []string{
					"docker", "kubernetes", "jenkins", "gitlab ci",
					"github actions", "terraform", "ansible", "puppet", "chef",
					"vagrant", "prometheus", "grafana", "elk stack", "nginx",
					"apache", "ci/cd",
				},
			},
			{
				Key: "version_control",
				Keywords: []string{
					"git", "github", "gitlab", "bitbucket", "svn", "mercurial",
				},
			},
			{
				Key: "operating_systems",
				Keywords: []string{
					"linux", "ubuntu", "centos", "debian", "windows", "macos",
					"unix", "fedora", "arch linux", "red hat",
				},
			},
			{
				Key: "soft_skills",
				Keywords: []string{
					"leadership", "communication", "mentoring", "teamwork",
					"problem solving", "learning", "agile", "scrum",
					"project management",
				},
			},
		},
		Indicators: IndicatorSet{
			JobTitles: []string{
				"engineer", "developer", "manager", "analyst", "consultant",
				"architect", "scientist", "designer", "specialist", "lead",
				"director", "administrator", "intern", "researcher",
			},
			CompanyMarkers: []string{
				"inc", "inc.", "corp", "corp.", "corporation", "llc", "ltd",
				"ltd.", "co.", "company", "technologies", "solutions",
				"systems", "labs", "group",
			},
			Institutions: []string{
				"university", "college", "institute", "school", "academy",
				"polytechnic",
			},
			FieldsOfStudy: []string{
				"computer science", "software engineering", "data science",
				"electrical engineering", "mechanical engineering",
				"information technology", "information systems", "mathematics",
				"statistics", "physics", "business administration", "economics",
			},
			Certifications: []string{
				"certified", "certification", "certificate", "aws", "azure",
				"google cloud", "cisco", "pmp", "scrum", "cka", "ckad",
				"comptia", "oracle",
			},
		},
		ContactPatterns: map[string][]string{
			"email": {
				`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
			},
			"phone": {
				`\+?1?[-.\s]?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`,
				`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`,
				`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`,
			},
			"linkedin": {
				`(?i)linkedin\.com/in/[\w-]+`,
				`(?i)linkedin\.com/pub/[\w-]+`,
			},
			"github": {
				`(?i)github\.com/[\w-]+`,
			},
		},
	}
}
